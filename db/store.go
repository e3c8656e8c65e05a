package db

import (
	json "github.com/goccy/go-json"

	"architech/model"
)

// Claves del almacén. Se conservan los nombres del panel original para que
// un volcado antiguo siga siendo legible.
const (
	ClaveProyectos = "architech-projects"
	ClaveClientes  = "architech-clients"
	ClaveSeleccion = "architech-selected-project-id"
)

// Store es el repositorio tipado sobre el DBManager: cada colección se
// serializa como un único documento JSON bajo su clave. Los fallos de
// lectura degradan al valor por defecto (lista vacía / clientes de muestra)
// y los de escritura se registran sin propagarse: el estado en memoria
// sigue siendo la fuente de verdad durante la sesión.
type Store struct {
	m DBManager
}

// NewStore crea el repositorio sobre un gestor ya inicializado.
func NewStore(m DBManager) *Store {
	return &Store{m: m}
}

// LoadProyectos hidrata la colección de promociones. Ausencia o corrupción
// del documento devuelven una lista vacía.
func (s *Store) LoadProyectos() []model.Promocion {
	raw, ok, err := s.m.Get(ClaveProyectos)
	if err != nil {
		logErrorf("leyendo %s: %v", ClaveProyectos, err)
		return nil
	}
	if !ok {
		return nil
	}
	var proyectos []model.Promocion
	if err := json.Unmarshal([]byte(raw), &proyectos); err != nil {
		logErrorf("documento %s corrupto, se descarta: %v", ClaveProyectos, err)
		return nil
	}
	return proyectos
}

// SaveProyectos persiste la colección completa de promociones.
func (s *Store) SaveProyectos(proyectos []model.Promocion) error {
	raw, err := json.Marshal(proyectos)
	if err != nil {
		logErrorf("serializando proyectos: %v", err)
		return err
	}
	if err := s.m.Put(ClaveProyectos, string(raw)); err != nil {
		logErrorf("guardando %s: %v", ClaveProyectos, err)
		return err
	}
	return nil
}

// LoadClientes hidrata la base de clientes; si no hay nada persistido (o el
// documento es ilegible) devuelve los clientes de muestra.
func (s *Store) LoadClientes() []model.Cliente {
	raw, ok, err := s.m.Get(ClaveClientes)
	if err != nil {
		logErrorf("leyendo %s: %v", ClaveClientes, err)
		return ClientesMuestra()
	}
	if !ok {
		return ClientesMuestra()
	}
	var clientes []model.Cliente
	if err := json.Unmarshal([]byte(raw), &clientes); err != nil {
		logErrorf("documento %s corrupto, se usan clientes de muestra: %v", ClaveClientes, err)
		return ClientesMuestra()
	}
	return clientes
}

// SaveClientes persiste la base de clientes completa.
func (s *Store) SaveClientes(clientes []model.Cliente) error {
	raw, err := json.Marshal(clientes)
	if err != nil {
		logErrorf("serializando clientes: %v", err)
		return err
	}
	if err := s.m.Put(ClaveClientes, string(raw)); err != nil {
		logErrorf("guardando %s: %v", ClaveClientes, err)
		return err
	}
	return nil
}

// LoadSeleccion devuelve la promoción seleccionada. Si no hay ninguna
// guardada (o ya no existe) cae a la primera de la lista.
func (s *Store) LoadSeleccion(proyectos []model.Promocion) string {
	if len(proyectos) == 0 {
		return ""
	}
	id, ok, err := s.m.Get(ClaveSeleccion)
	if err != nil {
		logErrorf("leyendo %s: %v", ClaveSeleccion, err)
	}
	if ok {
		for i := range proyectos {
			if proyectos[i].ID == id {
				return id
			}
		}
	}
	return proyectos[0].ID
}

// SaveSeleccion persiste la promoción seleccionada; con id vacío borra la clave.
func (s *Store) SaveSeleccion(id string) error {
	var err error
	if id == "" {
		err = s.m.Delete(ClaveSeleccion)
	} else {
		err = s.m.Put(ClaveSeleccion, id)
	}
	if err != nil {
		logErrorf("guardando %s: %v", ClaveSeleccion, err)
	}
	return err
}

// ClientesMuestra es la base de clientes inicial que se ofrece cuando aún no
// hay nada persistido.
func ClientesMuestra() []model.Cliente {
	return []model.Cliente{
		{
			ID: "cli-001", Estado: model.ClienteActivo, Tipo: model.TipoComprador,
			Nombre: "John", Apellidos: "Doe", Telefono: "600111222",
			Email: "john.doe@example.com", Localidad: "Madrid", Provincia: "Madrid",
			FechaNacimiento: "1982-04-17", Genero: "M",
			FechaRegistro: "2023-09-12T10:15:00Z",
		},
		{
			ID: "cli-002", Estado: model.ClienteActivo, Tipo: model.TipoReserva,
			Nombre: "Jane", Apellidos: "Smith", Telefono: "600333444",
			Email: "jane.smith@example.com", Localidad: "Alcobendas", Provincia: "Madrid",
			FechaNacimiento: "1990-11-02", Genero: "F",
			FechaRegistro: "2024-01-28T16:40:00Z",
		},
		{
			ID: "cli-003", Estado: model.ClienteActivo, Tipo: model.TipoComprador,
			Nombre: "Laura", Apellidos: "García", Telefono: "600555666",
			Email: "laura.garcia@example.com", Localidad: "Getafe", Provincia: "Madrid",
			FechaNacimiento: "1975-06-30", Genero: "F",
			FechaRegistro: "2023-05-03T09:00:00Z",
		},
		{
			ID: "cli-004", Estado: model.ClienteActivo, Tipo: model.TipoOptante,
			Nombre: "Carlos", Apellidos: "Rodriguez", Telefono: "600777888",
			Email: "carlos.rodriguez@example.com", Localidad: "Madrid", Provincia: "Madrid",
			FechaNacimiento: "1995-01-21", Genero: "M",
			FechaRegistro: "2024-03-11T12:05:00Z",
		},
		{
			ID: "cli-005", Estado: model.ClienteInactivo, Tipo: model.TipoInteresado,
			Nombre: "Marta", Apellidos: "Vidal", Telefono: "600999000",
			Email: "marta.vidal@example.com", Localidad: "Móstoles", Provincia: "Madrid",
			FechaNacimiento: "1968-12-09", Genero: "F",
			FechaRegistro: "2022-11-19T18:30:00Z",
		},
	}
}
