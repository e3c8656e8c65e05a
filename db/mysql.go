package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDB implementa DBManager para MySQL/MariaDB.
type MySQLDB struct {
	cfg Config
	db  *sql.DB
}

func (m *MySQLDB) dsn() string {
	host := m.cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := m.cfg.Port
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true",
		m.cfg.User, m.cfg.Password, host, port, m.cfg.Name)
}

// Init abre la conexión y crea la tabla almacen si no existe.
func (m *MySQLDB) Init() error {
	db, err := sql.Open("mysql", m.dsn())
	if err != nil {
		return err
	}
	m.db = db

	if err := db.Ping(); err != nil {
		return fmt.Errorf("no se puede conectar a MySQL: %w", err)
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS almacen (
            clave VARCHAR(191) PRIMARY KEY,
            valor LONGTEXT NOT NULL
        ) CHARACTER SET utf8mb4;
    `)
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	logInfof("MySQL inicializado (%s/%s)", m.cfg.Host, m.cfg.Name)
	return nil
}

func (m *MySQLDB) Close() {
	if m.db != nil {
		m.db.Close()
	}
}

func (m *MySQLDB) DB() *sql.DB {
	return m.db
}

func (m *MySQLDB) Get(clave string) (string, bool, error) {
	var valor string
	err := m.db.QueryRow("SELECT valor FROM almacen WHERE clave = ?", clave).Scan(&valor)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return valor, true, nil
}

func (m *MySQLDB) Put(clave, valor string) error {
	_, err := m.db.Exec(`
        INSERT INTO almacen (clave, valor) VALUES (?, ?)
        ON DUPLICATE KEY UPDATE valor = VALUES(valor)
    `, clave, valor)
	return err
}

func (m *MySQLDB) Delete(clave string) error {
	_, err := m.db.Exec("DELETE FROM almacen WHERE clave = ?", clave)
	return err
}
