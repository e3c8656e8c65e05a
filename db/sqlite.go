package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDB implementa DBManager para SQLite. Es el motor por defecto: un
// fichero local, sin servidor, igual que el localStorage al que sustituye.
type SQLiteDB struct {
	cfg Config
	db  *sql.DB
}

// Init abre la conexión y crea la tabla almacen si no existe.
func (s *SQLiteDB) Init() error {
	path := s.cfg.Path
	if path == "" {
		path = "./architech.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	s.db = db

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS almacen (
            clave TEXT PRIMARY KEY,
            valor TEXT NOT NULL
        );
    `)
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)
	logInfof("SQLite inicializado en %s", path)
	return nil
}

// Close cierra la conexión activa.
func (s *SQLiteDB) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// DB devuelve la conexión SQL limpia.
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}

func (s *SQLiteDB) Get(clave string) (string, bool, error) {
	var valor string
	err := s.db.QueryRow("SELECT valor FROM almacen WHERE clave = ?", clave).Scan(&valor)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return valor, true, nil
}

func (s *SQLiteDB) Put(clave, valor string) error {
	_, err := s.db.Exec(`
        INSERT INTO almacen (clave, valor) VALUES (?, ?)
        ON CONFLICT(clave) DO UPDATE SET valor = excluded.valor
    `, clave, valor)
	return err
}

func (s *SQLiteDB) Delete(clave string) error {
	_, err := s.db.Exec("DELETE FROM almacen WHERE clave = ?", clave)
	return err
}
