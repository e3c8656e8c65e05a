package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresDB implementa DBManager para PostgreSQL. A diferencia de los otros
// motores usa marcadores $1, $2, ...
type PostgresDB struct {
	cfg Config
	db  *sql.DB
}

func (p *PostgresDB) dsn() string {
	host := p.cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := p.cfg.Port
	if port == "" {
		port = "5432"
	}
	sslmode := p.cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, p.cfg.User, p.cfg.Password, p.cfg.Name, sslmode)
}

// Init abre la conexión y crea la tabla almacen si no existe.
func (p *PostgresDB) Init() error {
	db, err := sql.Open("postgres", p.dsn())
	if err != nil {
		return err
	}
	p.db = db

	if err := db.Ping(); err != nil {
		return fmt.Errorf("no se puede conectar a PostgreSQL: %w", err)
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS almacen (
            clave TEXT PRIMARY KEY,
            valor TEXT NOT NULL
        );
    `)
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	logInfof("PostgreSQL inicializado (%s/%s)", p.cfg.Host, p.cfg.Name)
	return nil
}

func (p *PostgresDB) Close() {
	if p.db != nil {
		p.db.Close()
	}
}

func (p *PostgresDB) DB() *sql.DB {
	return p.db
}

func (p *PostgresDB) Get(clave string) (string, bool, error) {
	var valor string
	err := p.db.QueryRow("SELECT valor FROM almacen WHERE clave = $1", clave).Scan(&valor)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return valor, true, nil
}

func (p *PostgresDB) Put(clave, valor string) error {
	_, err := p.db.Exec(`
        INSERT INTO almacen (clave, valor) VALUES ($1, $2)
        ON CONFLICT (clave) DO UPDATE SET valor = EXCLUDED.valor
    `, clave, valor)
	return err
}

func (p *PostgresDB) Delete(clave string) error {
	_, err := p.db.Exec("DELETE FROM almacen WHERE clave = $1", clave)
	return err
}
