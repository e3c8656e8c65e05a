package model

// EstadoCliente es el estado comercial de un cliente.
type EstadoCliente string

const (
	ClienteActivo   EstadoCliente = "ACTIVO"
	ClienteInactivo EstadoCliente = "INACTIVO"
)

// TipoCliente clasifica al cliente dentro del embudo comercial.
type TipoCliente string

const (
	TipoInteresado TipoCliente = "Interesado"
	TipoPotencial  TipoCliente = "Potencial"
	TipoOptante    TipoCliente = "Optante"
	TipoSocio      TipoCliente = "Socio"
	TipoPrevio     TipoCliente = "Previo"
	TipoReserva    TipoCliente = "Reserva"
	TipoComprador  TipoCliente = "Comprada"
)

// Cliente es una persona de la base de datos comercial, independiente de
// cualquier promoción. El vínculo con una vivienda se establece desde la
// vivienda (CompradorID), nunca desde aquí.
type Cliente struct {
	ID string `json:"id"`

	Estado EstadoCliente `json:"estado"`
	Tipo   TipoCliente   `json:"tipo"`
	Grupo  string        `json:"grupo,omitempty"`

	Nombre       string `json:"nombre"`
	Apellidos    string `json:"apellidos,omitempty"`
	DNI          string `json:"dni,omitempty"`
	Telefono     string `json:"telefono"`
	Telefono2    string `json:"telefono2,omitempty"`
	Email        string `json:"email"`
	Direccion    string `json:"direccion,omitempty"`
	CodigoPostal string `json:"codigoPostal,omitempty"`
	Localidad    string `json:"localidad,omitempty"`
	Provincia    string `json:"provincia,omitempty"`
	Pais         string `json:"pais,omitempty"`
	// FechaNacimiento en formato "YYYY-MM-DD".
	FechaNacimiento string `json:"fechaNacimiento,omitempty"`
	EstadoCivil     string `json:"estadoCivil,omitempty"`
	Genero          string `json:"genero,omitempty"` // "F" o "M"

	FechaRegistro        string `json:"fechaRegistro"` // ISO
	FechaUltimaActividad string `json:"fechaUltimaActividad,omitempty"`
	Notas                string `json:"notas,omitempty"`
}

// ClienteAumentado es la vista de solo lectura que une un cliente con la
// vivienda que tiene comprada o reservada (como mucho una, buscada por
// CompradorID en todas las promociones) y añade los campos calculados.
// Se recalcula en cada lectura; nunca se persiste.
type ClienteAumentado struct {
	Cliente

	PromocionID     string `json:"promocionId,omitempty"`
	PromocionNombre string `json:"promocionNombre,omitempty"`
	ViviendaID      string `json:"viviendaId,omitempty"`
	GarajeID        string `json:"garajeId,omitempty"`
	TrasteroID      string `json:"trasteroId,omitempty"`

	Edad         int    `json:"edad,omitempty"`
	RangoEdad    string `json:"rangoEdad,omitempty"`
	AnoRegistro  int    `json:"anoRegistro,omitempty"`
}
