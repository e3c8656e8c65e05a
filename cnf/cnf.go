package cnf

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config – variable pública con las opciones de configuración en crudo.
var Config map[string]string

// AppConfig – configuración tipada para facilitar el uso.
type AppConfig struct {
	HTTPPort string
	DBEngine string
	DBPath   string
	DBHost   string
	DBUser   string
	DBPass   string
	DBPort   string
	DBName   string
	LogLevel string
	Env      string
}

// LoadConfig carga el fichero en formato clave=valor, ignorando líneas
// vacías o comentarios. Antes de leer el fichero carga un .env si existe,
// de forma que las variables de entorno puedan sobreescribir cualquier
// clave (útil para no guardar credenciales en el fichero).
func LoadConfig(path string) (map[string]string, error) {
	// Un .env ausente no es un error.
	_ = godotenv.Load()

	config := make(map[string]string)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Sin fichero: solo valores por defecto y entorno.
			Config = config
			return config, nil
		}
		return nil, fmt.Errorf("no se puede abrir el fichero de configuración: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if !strings.Contains(line, "=") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if value != "" {
			commentIdx := -1
			for _, marker := range []string{" #", "\t#", " ;", "\t;"} {
				if idx := strings.Index(value, marker); idx >= 0 && (commentIdx == -1 || idx < commentIdx) {
					commentIdx = idx
				}
			}
			if commentIdx >= 0 {
				value = strings.TrimSpace(value[:commentIdx])
			}
		}
		config[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error leyendo config: %w", err)
	}

	Config = config
	return config, nil
}

// valor devuelve la primera opción definida: variable de entorno, clave del
// fichero, o el valor por defecto.
func valor(cfg map[string]string, clave, def string) string {
	if v := strings.TrimSpace(os.Getenv(clave)); v != "" {
		return v
	}
	if v := strings.TrimSpace(cfg[clave]); v != "" {
		return v
	}
	return def
}

// ParseConfig convierte map[string]string en AppConfig con valores por defecto.
func ParseConfig(cfg map[string]string) (AppConfig, error) {
	ac := AppConfig{
		HTTPPort: valor(cfg, "HTTP_PORT", "8080"),
		DBEngine: valor(cfg, "DB_ENGINE", "sqlite"),
		DBPath:   valor(cfg, "DB_PATH", "./architech.db"),
		DBHost:   valor(cfg, "DB_HOST", ""),
		DBUser:   valor(cfg, "DB_USR", ""),
		DBPass:   valor(cfg, "DB_PASS", ""),
		DBPort:   valor(cfg, "DB_PORT", ""),
		DBName:   valor(cfg, "DB_NAME", ""),
		LogLevel: valor(cfg, "LOG_LEVEL", "info"),
		Env:      valor(cfg, "ENVIRONMENT", "development"),
	}
	return ac, nil
}
