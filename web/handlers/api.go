package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"

	"architech/core"
	"architech/model"
)

// API expone la aplicación como JSON para la vista.
type API struct {
	App *core.App
}

func NewAPI(app *core.App) *API {
	return &API{App: app}
}

// Registrar da de alta todas las rutas de la API en el router.
func (api *API) Registrar(router *httprouter.Router) {
	router.GET("/api/proyectos", api.ListarProyectos)
	router.GET("/api/proyectos/:id", api.ObtenerProyecto)
	// La importación vive fuera de /api/proyectos/... porque el router no
	// admite un segmento estático donde ya hay un parámetro :id.
	router.POST("/api/importar", api.ImportarProyecto)
	router.DELETE("/api/proyectos/:id", api.EliminarProyecto)

	router.GET("/api/seleccion", api.ObtenerSeleccion)
	router.PUT("/api/seleccion", api.CambiarSeleccion)

	router.GET("/api/proyectos/:id/viviendas", api.ListarViviendas)
	router.PUT("/api/proyectos/:id/viviendas/:vid", api.ActualizarVivienda)
	router.POST("/api/proyectos/:id/viviendas/estado", api.ActualizarEstadoViviendas)
	router.GET("/api/proyectos/:id/reservas", api.CuadroReservas)
	router.GET("/api/proyectos/:id/garajes", api.ListarGarajes)
	router.GET("/api/proyectos/:id/trasteros", api.ListarTrasteros)
	router.GET("/api/proyectos/:id/filtros", api.OpcionesFiltros)
	router.GET("/api/proyectos/:id/dashboard", api.Dashboard)

	router.GET("/api/clientes", api.ListarClientes)
	router.PUT("/api/clientes", api.ReemplazarClientes)
	router.POST("/api/clientes", api.ImportarClientes)
	router.PUT("/api/clientes/:id", api.GuardarCliente)
	router.POST("/api/clientes/acciones", api.AccionMasivaClientes)
}

func responderJSON(w http.ResponseWriter, codigo int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(codigo)
	_ = json.NewEncoder(w).Encode(v)
}

type mensajeError struct {
	Error string `json:"error"`
}

func responderError(w http.ResponseWriter, codigo int, err error) {
	responderJSON(w, codigo, mensajeError{Error: err.Error()})
}

// codigoDe traduce los errores de la aplicación a códigos HTTP: los "no
// existe" son 404, el resto de errores de entrada son 400.
func codigoDe(err error) int {
	if errors.Is(err, core.ErrProyectoNoExiste) || errors.Is(err, core.ErrViviendaNoExiste) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// --- proyectos ---

// resumenProyecto es la fila del listado de promociones.
type resumenProyecto struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Viviendas int    `json:"viviendas"`
	Garajes   int    `json:"garajes"`
	Trasteros int    `json:"trasteros"`
}

func (api *API) ListarProyectos(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	proyectos := api.App.Proyectos()
	resumen := make([]resumenProyecto, 0, len(proyectos))
	for i := range proyectos {
		p := &proyectos[i]
		resumen = append(resumen, resumenProyecto{
			ID:        p.ID,
			Nombre:    p.Nombre,
			Viviendas: len(p.Viviendas),
			Garajes:   len(p.Garajes),
			Trasteros: len(p.Trasteros),
		})
	}
	responderJSON(w, http.StatusOK, resumen)
}

func (api *API) ObtenerProyecto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := api.App.Proyecto(ps.ByName("id"))
	if !ok {
		responderError(w, http.StatusNotFound, core.ErrProyectoNoExiste)
		return
	}
	responderJSON(w, http.StatusOK, p)
}

// ImportarProyecto recibe los cuatro CSV por multipart. El campo "modo"
// decide entre alta nueva ("crear", por defecto) y reimportación sobre la
// promoción del campo "proyecto" ("actualizar"). Cualquier error de parseo
// aborta sin tocar el estado.
func (api *API) ImportarProyecto(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		responderError(w, http.StatusBadRequest, errors.New("no se ha podido leer el formulario de importación"))
		return
	}

	ficheros, err := ficherosDelFormulario(r)
	if err != nil {
		responderError(w, http.StatusBadRequest, err)
		return
	}
	clasificados, err := core.ClasificarFicheros(ficheros)
	if err != nil {
		responderError(w, http.StatusBadRequest, err)
		return
	}

	modo := r.FormValue("modo")
	if modo == "actualizar" {
		id := r.FormValue("proyecto")
		p, err := api.App.ActualizarProyecto(id, clasificados)
		if err != nil {
			responderError(w, codigoDe(err), err)
			return
		}
		log.Printf("Proyecto %s reimportado (%d viviendas)", p.ID, len(p.Viviendas))
		responderJSON(w, http.StatusOK, p)
		return
	}

	p, err := api.App.ImportarProyecto(clasificados)
	if err != nil {
		responderError(w, http.StatusBadRequest, err)
		return
	}
	log.Printf("Proyecto %s importado (%d viviendas, %d garajes, %d trasteros)",
		p.ID, len(p.Viviendas), len(p.Garajes), len(p.Trasteros))
	responderJSON(w, http.StatusCreated, p)
}

func (api *API) EliminarProyecto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := api.App.EliminarProyecto(id); err != nil {
		responderError(w, codigoDe(err), err)
		return
	}
	log.Printf("Proyecto %s eliminado", id)
	responderJSON(w, http.StatusOK, map[string]string{"seleccion": api.App.Seleccion()})
}

// --- selección ---

func (api *API) ObtenerSeleccion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	responderJSON(w, http.StatusOK, map[string]string{"seleccion": api.App.Seleccion()})
}

func (api *API) CambiarSeleccion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var peticion struct {
		Seleccion string `json:"seleccion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&peticion); err != nil {
		responderError(w, http.StatusBadRequest, errors.New("cuerpo JSON inválido"))
		return
	}
	if err := api.App.SeleccionarProyecto(peticion.Seleccion); err != nil {
		responderError(w, codigoDe(err), err)
		return
	}
	responderJSON(w, http.StatusOK, map[string]string{"seleccion": peticion.Seleccion})
}

// --- viviendas ---

func filtrosDeQuery(r *http.Request) core.FiltrosVivienda {
	q := r.URL.Query()
	return core.FiltrosVivienda{
		Edificio:    q.Get("edificio"),
		Planta:      q.Get("planta"),
		Dormitorios: q.Get("dormitorios"),
		Estado:      q.Get("estado"),
		Tipo:        q.Get("tipo"),
		Posicion:    q.Get("posicion"),
		Orientacion: q.Get("orientacion"),
		RangoPrecio: q.Get("precio"),
	}
}

func (api *API) ListarViviendas(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := api.App.Proyecto(ps.ByName("id"))
	if !ok {
		responderError(w, http.StatusNotFound, core.ErrProyectoNoExiste)
		return
	}
	viviendas := core.FiltrarViviendas(p.Viviendas, filtrosDeQuery(r))
	if viviendas == nil {
		viviendas = []model.Vivienda{}
	}
	responderJSON(w, http.StatusOK, viviendas)
}

func (api *API) ActualizarVivienda(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var v model.Vivienda
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		responderError(w, http.StatusBadRequest, errors.New("cuerpo JSON inválido"))
		return
	}
	v.ID = ps.ByName("vid")
	actualizada, err := api.App.ActualizarVivienda(ps.ByName("id"), v)
	if err != nil {
		responderError(w, codigoDe(err), err)
		return
	}
	log.Printf("Vivienda %s actualizada (estado %s)", actualizada.ID, actualizada.Estado)
	responderJSON(w, http.StatusOK, actualizada)
}

func (api *API) ActualizarEstadoViviendas(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var peticion struct {
		Viviendas []string          `json:"viviendas"`
		Cambio    core.CambioEstado `json:"cambio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&peticion); err != nil {
		responderError(w, http.StatusBadRequest, errors.New("cuerpo JSON inválido"))
		return
	}
	tocadas, err := api.App.ActualizarEstadoViviendas(ps.ByName("id"), peticion.Viviendas, peticion.Cambio)
	if err != nil {
		responderError(w, codigoDe(err), err)
		return
	}
	log.Printf("Acción masiva sobre %d viviendas del proyecto %s", tocadas, ps.ByName("id"))
	responderJSON(w, http.StatusOK, map[string]int{"actualizadas": tocadas})
}

func (api *API) CuadroReservas(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := api.App.Proyecto(ps.ByName("id"))
	if !ok {
		responderError(w, http.StatusNotFound, core.ErrProyectoNoExiste)
		return
	}
	responderJSON(w, http.StatusOK, core.CuadroReservas(p.Viviendas))
}

func (api *API) ListarGarajes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := api.App.Proyecto(ps.ByName("id"))
	if !ok {
		responderError(w, http.StatusNotFound, core.ErrProyectoNoExiste)
		return
	}
	responderJSON(w, http.StatusOK, core.GarajesConEstado(&p))
}

func (api *API) ListarTrasteros(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := api.App.Proyecto(ps.ByName("id"))
	if !ok {
		responderError(w, http.StatusNotFound, core.ErrProyectoNoExiste)
		return
	}
	responderJSON(w, http.StatusOK, core.TrasterosConEstado(&p))
}

func (api *API) OpcionesFiltros(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := api.App.Proyecto(ps.ByName("id"))
	if !ok {
		responderError(w, http.StatusNotFound, core.ErrProyectoNoExiste)
		return
	}
	responderJSON(w, http.StatusOK, core.OpcionesDeFiltros(p.Viviendas))
}

// Dashboard devuelve los agregados del panel sobre las viviendas ya
// filtradas; la escala de la serie temporal llega en ?escala=semana|mes|ano.
func (api *API) Dashboard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := api.App.Proyecto(ps.ByName("id"))
	if !ok {
		responderError(w, http.StatusNotFound, core.ErrProyectoNoExiste)
		return
	}
	viviendas := core.FiltrarViviendas(p.Viviendas, filtrosDeQuery(r))
	responderJSON(w, http.StatusOK, core.DashboardDe(viviendas, r.URL.Query().Get("escala")))
}

// --- clientes ---

func (api *API) ListarClientes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	filtros := core.FiltrosCliente{
		Estado:    q.Get("estado"),
		Tipo:      q.Get("tipo"),
		Grupo:     q.Get("grupo"),
		Promocion: q.Get("promocion"),
		RangoEdad: q.Get("edad"),
		Texto:     q.Get("q"),
	}
	clientes := core.FiltrarClientes(api.App.ClientesAumentados(), filtros)
	if clientes == nil {
		clientes = []model.ClienteAumentado{}
	}
	responderJSON(w, http.StatusOK, clientes)
}

func (api *API) ReemplazarClientes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var clientes []model.Cliente
	if err := json.NewDecoder(r.Body).Decode(&clientes); err != nil {
		responderError(w, http.StatusBadRequest, errors.New("cuerpo JSON inválido"))
		return
	}
	api.App.ReemplazarClientes(clientes)
	log.Printf("Base de clientes sustituida (%d clientes)", len(clientes))
	responderJSON(w, http.StatusOK, map[string]int{"clientes": len(clientes)})
}

func (api *API) ImportarClientes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var importados []model.Cliente
	if err := json.NewDecoder(r.Body).Decode(&importados); err != nil {
		responderError(w, http.StatusBadRequest, errors.New("cuerpo JSON inválido"))
		return
	}
	total := api.App.ImportarClientes(importados)
	log.Printf("Importados %d clientes (total %d)", len(importados), total)
	responderJSON(w, http.StatusOK, map[string]int{"clientes": total})
}

func (api *API) GuardarCliente(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var c model.Cliente
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		responderError(w, http.StatusBadRequest, errors.New("cuerpo JSON inválido"))
		return
	}
	c.ID = ps.ByName("id")
	api.App.GuardarCliente(c)
	responderJSON(w, http.StatusOK, c)
}

func (api *API) AccionMasivaClientes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var peticion struct {
		Clientes []string            `json:"clientes"`
		Cambios  core.CambiosCliente `json:"cambios"`
	}
	if err := json.NewDecoder(r.Body).Decode(&peticion); err != nil {
		responderError(w, http.StatusBadRequest, errors.New("cuerpo JSON inválido"))
		return
	}
	tocados := api.App.AccionMasivaClientes(peticion.Clientes, peticion.Cambios)
	log.Printf("Acción masiva sobre %d clientes", tocados)
	responderJSON(w, http.StatusOK, map[string]int{"actualizados": tocados})
}

// ficherosDelFormulario reúne todos los ficheros del multipart, vengan del
// campo que vengan, indexados por nombre de fichero.
func ficherosDelFormulario(r *http.Request) (map[string]io.Reader, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		return nil, errors.New("no se ha recibido ningún fichero")
	}
	ficheros := make(map[string]io.Reader)
	for _, cabeceras := range r.MultipartForm.File {
		for _, fh := range cabeceras {
			f, err := fh.Open()
			if err != nil {
				return nil, errors.New("no se ha podido abrir " + fh.Filename)
			}
			defer f.Close()
			ficheros[fh.Filename] = f
		}
	}
	return ficheros, nil
}
