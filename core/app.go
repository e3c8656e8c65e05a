package core

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"architech/model"
)

var (
	// ErrProyectoNoExiste se devuelve al operar sobre una promoción desconocida.
	ErrProyectoNoExiste = errors.New("la promoción no existe")
	// ErrViviendaNoExiste se devuelve al operar sobre una vivienda desconocida.
	ErrViviendaNoExiste = errors.New("la vivienda no existe")
)

// Almacen es lo que la aplicación necesita del repositorio persistente.
// Las lecturas nunca fallan (degradan al valor por defecto); las escrituras
// pueden fallar pero la aplicación no se detiene por ello: el estado en
// memoria manda durante la sesión.
type Almacen interface {
	LoadProyectos() []model.Promocion
	SaveProyectos([]model.Promocion) error
	LoadClientes() []model.Cliente
	SaveClientes([]model.Cliente) error
	LoadSeleccion(proyectos []model.Promocion) string
	SaveSeleccion(id string) error
}

// App mantiene el estado de la aplicación: las promociones, la base de
// clientes y la promoción seleccionada. Todas las mutaciones sustituyen la
// instantánea completa bajo el mutex, de modo que ningún lector ve un
// agregado a medias; la importación solo toca el estado cuando el parseo
// entero ha ido bien.
type App struct {
	mu        sync.Mutex
	store     Almacen
	proyectos []model.Promocion
	clientes  []model.Cliente
	seleccion string

	ahora func() time.Time
}

// NewApp hidrata la aplicación desde el repositorio.
func NewApp(store Almacen) *App {
	a := &App{store: store, ahora: time.Now}
	a.proyectos = store.LoadProyectos()
	a.clientes = store.LoadClientes()
	a.seleccion = store.LoadSeleccion(a.proyectos)
	return a
}

// --- lecturas ---

// Proyectos devuelve una copia de la lista de promociones.
func (a *App) Proyectos() []model.Promocion {
	a.mu.Lock()
	defer a.mu.Unlock()
	resultado := make([]model.Promocion, len(a.proyectos))
	copy(resultado, a.proyectos)
	return resultado
}

// Proyecto devuelve la promoción con ese id.
func (a *App) Proyecto(id string) (model.Promocion, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.proyectos {
		if a.proyectos[i].ID == id {
			return a.proyectos[i], true
		}
	}
	return model.Promocion{}, false
}

// Seleccion devuelve el id de la promoción seleccionada ("" si ninguna).
func (a *App) Seleccion() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.seleccion
}

// Clientes devuelve una copia de la base de clientes.
func (a *App) Clientes() []model.Cliente {
	a.mu.Lock()
	defer a.mu.Unlock()
	resultado := make([]model.Cliente, len(a.clientes))
	copy(resultado, a.clientes)
	return resultado
}

// ClientesAumentados recalcula la vista aumentada sobre el estado actual.
func (a *App) ClientesAumentados() []model.ClienteAumentado {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AumentarClientes(a.clientes, a.proyectos, a.ahora())
}

// --- selección ---

// SeleccionarProyecto cambia la promoción activa.
func (a *App) SeleccionarProyecto(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.proyectos {
		if a.proyectos[i].ID == id {
			a.seleccion = id
			a.store.SaveSeleccion(id)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProyectoNoExiste, id)
}

// --- importación ---

// nuevoID genera un id de promoción nunca usado. Mantiene el formato
// "proj-<epoch ms>" del panel original y añade sufijo si coincide con uno
// existente (dos importaciones en el mismo milisegundo).
func (a *App) nuevoID() string {
	base := fmt.Sprintf("proj-%d", a.ahora().UnixMilli())
	id := base
	for n := 1; a.existeProyecto(id); n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}

func (a *App) existeProyecto(id string) bool {
	for i := range a.proyectos {
		if a.proyectos[i].ID == id {
			return true
		}
	}
	return false
}

// ImportarProyecto parsea los cuatro CSV y da de alta una promoción nueva,
// que pasa a ser la seleccionada. Si el parseo falla no se muta nada.
func (a *App) ImportarProyecto(f *FicherosProyecto) (model.Promocion, error) {
	p, err := ParsearProyecto(f)
	if err != nil {
		return model.Promocion{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	p.ID = a.nuevoID()
	nuevos := make([]model.Promocion, len(a.proyectos), len(a.proyectos)+1)
	copy(nuevos, a.proyectos)
	nuevos = append(nuevos, *p)

	a.proyectos = nuevos
	a.seleccion = p.ID
	a.persistirProyectos()
	a.store.SaveSeleccion(a.seleccion)
	return *p, nil
}

// ActualizarProyecto reimporta los CSV sobre una promoción existente:
// conserva su identidad y sustituye todo lo demás por lo recién parseado.
func (a *App) ActualizarProyecto(id string, f *FicherosProyecto) (model.Promocion, error) {
	p, err := ParsearProyecto(f)
	if err != nil {
		return model.Promocion{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.proyectos {
		if a.proyectos[i].ID != id {
			continue
		}
		p.ID = id
		nuevos := make([]model.Promocion, len(a.proyectos))
		copy(nuevos, a.proyectos)
		nuevos[i] = *p
		a.proyectos = nuevos
		a.persistirProyectos()
		return *p, nil
	}
	return model.Promocion{}, fmt.Errorf("%w: %s", ErrProyectoNoExiste, id)
}

// EliminarProyecto borra la promoción y sus colecciones. Si era la
// seleccionada, la selección salta a la primera restante (o a ninguna).
func (a *App) EliminarProyecto(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var nuevos []model.Promocion
	encontrado := false
	for i := range a.proyectos {
		if a.proyectos[i].ID == id {
			encontrado = true
			continue
		}
		nuevos = append(nuevos, a.proyectos[i])
	}
	if !encontrado {
		return fmt.Errorf("%w: %s", ErrProyectoNoExiste, id)
	}

	a.proyectos = nuevos
	if a.seleccion == id {
		if len(nuevos) > 0 {
			a.seleccion = nuevos[0].ID
		} else {
			a.seleccion = ""
		}
		a.store.SaveSeleccion(a.seleccion)
	}
	a.persistirProyectos()
	return nil
}

// --- mutaciones de viviendas ---

// ActualizarVivienda guarda la edición de una vivienda (estado, comprador,
// vínculos, notas...). Comprueba que los vínculos a garaje y trastero
// existan y no estén ya asignados a otra vivienda. Al pasar a Disponible se
// limpian comprador y fechas; al reservar o vender sin fecha se estampa el
// momento actual.
func (a *App) ActualizarVivienda(proyectoID string, v model.Vivienda) (model.Vivienda, error) {
	if v.Estado != "" && !v.Estado.Valido() {
		return model.Vivienda{}, fmt.Errorf("estado desconocido: %s", v.Estado)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.proyectos {
		if a.proyectos[i].ID != proyectoID {
			continue
		}
		p := a.proyectos[i]

		j := p.BuscarVivienda(v.ID)
		if j < 0 {
			return model.Vivienda{}, fmt.Errorf("%w: %s", ErrViviendaNoExiste, v.ID)
		}

		if v.GarajeID != "" {
			if !p.TieneGaraje(v.GarajeID) {
				return model.Vivienda{}, fmt.Errorf("el garaje %s no existe en la promoción", v.GarajeID)
			}
			for k := range p.Viviendas {
				if k != j && p.Viviendas[k].GarajeID == v.GarajeID {
					return model.Vivienda{}, fmt.Errorf("el garaje %s ya está asignado a la vivienda %s", v.GarajeID, p.Viviendas[k].ID)
				}
			}
		}
		if v.TrasteroID != "" {
			if !p.TieneTrastero(v.TrasteroID) {
				return model.Vivienda{}, fmt.Errorf("el trastero %s no existe en la promoción", v.TrasteroID)
			}
			for k := range p.Viviendas {
				if k != j && p.Viviendas[k].TrasteroID == v.TrasteroID {
					return model.Vivienda{}, fmt.Errorf("el trastero %s ya está asignado a la vivienda %s", v.TrasteroID, p.Viviendas[k].ID)
				}
			}
		}
		if v.CompradorID != "" && !a.existeCliente(v.CompradorID) {
			return model.Vivienda{}, fmt.Errorf("el cliente %s no existe", v.CompradorID)
		}

		switch v.Estado {
		case model.EstadoDisponible:
			v.CompradorID = ""
			v.FechaReserva = ""
			v.FechaVenta = ""
		case model.EstadoReservada:
			if v.FechaReserva == "" {
				v.FechaReserva = a.ahora().Format(time.RFC3339)
			}
		case model.EstadoVendida:
			if v.FechaReserva == "" {
				v.FechaReserva = a.ahora().Format(time.RFC3339)
			}
			if v.FechaVenta == "" {
				v.FechaVenta = a.ahora().Format(time.RFC3339)
			}
		}

		viviendas := make([]model.Vivienda, len(p.Viviendas))
		copy(viviendas, p.Viviendas)
		viviendas[j] = v
		p.Viviendas = viviendas

		nuevos := make([]model.Promocion, len(a.proyectos))
		copy(nuevos, a.proyectos)
		nuevos[i] = p
		a.proyectos = nuevos
		a.persistirProyectos()
		return v, nil
	}
	return model.Vivienda{}, fmt.Errorf("%w: %s", ErrProyectoNoExiste, proyectoID)
}

// ActualizarEstadoViviendas aplica una acción masiva sobre las viviendas
// indicadas y devuelve cuántas se han tocado. Las viviendas no incluidas no
// cambian en absoluto.
func (a *App) ActualizarEstadoViviendas(proyectoID string, ids []string, cambio CambioEstado) (int, error) {
	if cambio.Estado != "" && !cambio.Estado.Valido() {
		return 0, fmt.Errorf("estado desconocido: %s", cambio.Estado)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	seleccionadas := make(map[string]bool, len(ids))
	for _, id := range ids {
		seleccionadas[id] = true
	}

	for i := range a.proyectos {
		if a.proyectos[i].ID != proyectoID {
			continue
		}
		p := a.proyectos[i]

		viviendas := make([]model.Vivienda, len(p.Viviendas))
		copy(viviendas, p.Viviendas)

		tocadas := 0
		for j := range viviendas {
			if !seleccionadas[viviendas[j].ID] {
				continue
			}
			aplicarCambioEstado(&viviendas[j], cambio)
			tocadas++
		}

		p.Viviendas = viviendas
		nuevos := make([]model.Promocion, len(a.proyectos))
		copy(nuevos, a.proyectos)
		nuevos[i] = p
		a.proyectos = nuevos
		a.persistirProyectos()
		return tocadas, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrProyectoNoExiste, proyectoID)
}

// --- mutaciones de clientes ---

func (a *App) existeCliente(id string) bool {
	for i := range a.clientes {
		if a.clientes[i].ID == id {
			return true
		}
	}
	return false
}

// ReemplazarClientes sustituye la base de clientes completa.
func (a *App) ReemplazarClientes(clientes []model.Cliente) {
	a.mu.Lock()
	defer a.mu.Unlock()
	nuevos := make([]model.Cliente, len(clientes))
	copy(nuevos, clientes)
	a.clientes = nuevos
	a.persistirClientes()
}

// ImportarClientes fusiona una lista importada con la actual: ids conocidos
// se actualizan, los nuevos se añaden.
func (a *App) ImportarClientes(importados []model.Cliente) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clientes = FusionarClientes(a.clientes, importados)
	a.persistirClientes()
	return len(a.clientes)
}

// GuardarCliente crea o actualiza un cliente por id.
func (a *App) GuardarCliente(c model.Cliente) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clientes = FusionarClientes(a.clientes, []model.Cliente{c})
	a.persistirClientes()
}

// CambiosCliente es una acción masiva sobre clientes; los campos vacíos no
// se tocan. Siempre actualiza la fecha de última actividad.
type CambiosCliente struct {
	Estado model.EstadoCliente `json:"estado,omitempty"`
	Tipo   model.TipoCliente   `json:"tipo,omitempty"`
	Grupo  string              `json:"grupo,omitempty"`
}

// AccionMasivaClientes aplica los cambios a los clientes seleccionados.
func (a *App) AccionMasivaClientes(ids []string, cambios CambiosCliente) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	seleccionados := make(map[string]bool, len(ids))
	for _, id := range ids {
		seleccionados[id] = true
	}
	ahora := a.ahora().Format(time.RFC3339)

	nuevos := make([]model.Cliente, len(a.clientes))
	copy(nuevos, a.clientes)

	tocados := 0
	for i := range nuevos {
		if !seleccionados[nuevos[i].ID] {
			continue
		}
		if cambios.Estado != "" {
			nuevos[i].Estado = cambios.Estado
		}
		if cambios.Tipo != "" {
			nuevos[i].Tipo = cambios.Tipo
		}
		if cambios.Grupo != "" {
			nuevos[i].Grupo = cambios.Grupo
		}
		nuevos[i].FechaUltimaActividad = ahora
		tocados++
	}

	a.clientes = nuevos
	a.persistirClientes()
	return tocados
}

// --- persistencia ---

// persistirProyectos guarda la colección; un fallo se registra dentro del
// repositorio y no interrumpe la sesión.
func (a *App) persistirProyectos() {
	_ = a.store.SaveProyectos(a.proyectos)
}

func (a *App) persistirClientes() {
	_ = a.store.SaveClientes(a.clientes)
}
