package cnf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DBSettings son los parámetros de conexión ya resueltos, listos para que
// main los traduzca a la configuración del motor. cnf no importa db (db
// consulta cnf.Config para el nivel de log).
type DBSettings struct {
	Engine   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// YamlConfig replica la sección database de cnf/config.yaml. Es opcional:
// si el fichero existe, sus valores tienen prioridad sobre config.cfg.
type YamlConfig struct {
	Database struct {
		Type     string `yaml:"type"`
		Postgres struct {
			Host     string `yaml:"host"`
			Port     string `yaml:"port"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			DBName   string `yaml:"dbname"`
			SSLMode  string `yaml:"sslmode"`
		} `yaml:"postgresql"`
		MySQL struct {
			Host     string `yaml:"host"`
			Port     string `yaml:"port"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			DBName   string `yaml:"dbname"`
		} `yaml:"mysql"`
		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
	} `yaml:"database"`
}

// LoadYamlConfig lee un config.yaml y lo aplana a DBSettings. Devuelve
// os.ErrNotExist si el fichero no está.
func LoadYamlConfig(path string) (*DBSettings, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := &YamlConfig{}
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("error decodificando YAML: %w", err)
	}

	settings := DBSettings{
		Engine: config.Database.Type,
		Path:   config.Database.SQLite.Path,
	}
	switch config.Database.Type {
	case "postgres", "postgresql":
		settings.Host = config.Database.Postgres.Host
		settings.Port = config.Database.Postgres.Port
		settings.User = config.Database.Postgres.User
		settings.Password = config.Database.Postgres.Password
		settings.Name = config.Database.Postgres.DBName
		settings.SSLMode = config.Database.Postgres.SSLMode
	case "mysql", "mariadb":
		settings.Host = config.Database.MySQL.Host
		settings.Port = config.Database.MySQL.Port
		settings.User = config.Database.MySQL.User
		settings.Password = config.Database.MySQL.Password
		settings.Name = config.Database.MySQL.DBName
	}

	return &settings, nil
}

// DBSettings aplana la configuración de config.cfg.
func (ac AppConfig) DBSettings() DBSettings {
	return DBSettings{
		Engine:   ac.DBEngine,
		Path:     ac.DBPath,
		Host:     ac.DBHost,
		Port:     ac.DBPort,
		User:     ac.DBUser,
		Password: ac.DBPass,
		Name:     ac.DBName,
	}
}
