package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Config agrupa los parámetros de conexión de cualquiera de los motores.
type Config struct {
	Engine   string
	Path     string // sqlite
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string // postgres
}

// DBManager abstrae el almacén persistente del panel: un documento JSON por
// clave, equivalente al localStorage del front original. Las operaciones de
// lectura distinguen "clave ausente" (ok=false) de error real.
type DBManager interface {
	Init() error
	Close()
	DB() *sql.DB
	Get(clave string) (valor string, ok bool, err error)
	Put(clave, valor string) error
	Delete(clave string) error
}

// GetDBManager devuelve el gestor adecuado segun el motor configurado.
func GetDBManager(cfg Config) (DBManager, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Engine)) {
	case "", "sqlite", "sqlite3":
		return &SQLiteDB{cfg: cfg}, nil
	case "mysql", "mariadb":
		return &MySQLDB{cfg: cfg}, nil
	case "postgres", "postgresql":
		return &PostgresDB{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("motor de base de datos no soportado: %s", cfg.Engine)
	}
}
