package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"

	"architech/core"
	"architech/model"
)

type almacenMemoria struct {
	proyectos []model.Promocion
	clientes  []model.Cliente
	seleccion string
}

func (m *almacenMemoria) LoadProyectos() []model.Promocion        { return m.proyectos }
func (m *almacenMemoria) SaveProyectos(p []model.Promocion) error { m.proyectos = p; return nil }
func (m *almacenMemoria) LoadClientes() []model.Cliente           { return m.clientes }
func (m *almacenMemoria) SaveClientes(c []model.Cliente) error    { m.clientes = c; return nil }
func (m *almacenMemoria) LoadSeleccion([]model.Promocion) string  { return m.seleccion }
func (m *almacenMemoria) SaveSeleccion(id string) error           { m.seleccion = id; return nil }

func routerDePrueba(t *testing.T) (*httprouter.Router, *core.App) {
	t.Helper()
	app := core.NewApp(&almacenMemoria{})
	router := httprouter.New()
	NewAPI(app).Registrar(router)
	return router, app
}

func cuerpoImportacion(t *testing.T, modo, proyecto string) (*bytes.Buffer, string) {
	t.Helper()
	ficheros := map[string]string{
		// La Ó de PROMOCIÓN va como byte 0xD3 (ISO-8859-1), igual que en los
		// exports reales.
		"DS GENERALES.csv": "PROMOCI\xd3N;Residencial Test\n",
		"TS GENERAL.csv": "G;G;G;G;G\nID VIVIENDA;EDIFICIO;NIVEL;DORM.;PRECIO DE VENTA\n" +
			"A-101;A;1;3;150000\nA-102;A;2;2;120000\n",
		"GARAJES.csv":      "G;G\nID-G;TIPO-G\nG-1;Coche\n",
		"TRASTEROS BR.csv": "ID-T;CONST-T\nT-1;6\n",
	}

	cuerpo := &bytes.Buffer{}
	escritor := multipart.NewWriter(cuerpo)
	for nombre, contenido := range ficheros {
		parte, err := escritor.CreateFormFile("ficheros", nombre)
		if err != nil {
			t.Fatal(err)
		}
		parte.Write([]byte(contenido))
	}
	escritor.WriteField("modo", modo)
	if proyecto != "" {
		escritor.WriteField("proyecto", proyecto)
	}
	escritor.Close()
	return cuerpo, escritor.FormDataContentType()
}

func importaProyecto(t *testing.T, router *httprouter.Router) model.Promocion {
	t.Helper()
	cuerpo, tipo := cuerpoImportacion(t, "crear", "")
	req := httptest.NewRequest(http.MethodPost, "/api/importar", cuerpo)
	req.Header.Set("Content-Type", tipo)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("importar: código %d, cuerpo %s", resp.Code, resp.Body.String())
	}
	var p model.Promocion
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestImportarYListarProyectos(t *testing.T) {
	router, _ := routerDePrueba(t)
	p := importaProyecto(t, router)

	if p.Nombre != "Residencial Test" || len(p.Viviendas) != 2 {
		t.Errorf("proyecto importado: %+v", p)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/proyectos", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("listar: código %d", resp.Code)
	}
	var lista []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &lista); err != nil {
		t.Fatal(err)
	}
	if len(lista) != 1 || lista[0]["nombre"] != "Residencial Test" {
		t.Errorf("listado: %v", lista)
	}
	if lista[0]["viviendas"].(float64) != 2 {
		t.Errorf("recuento de viviendas: %v", lista[0])
	}
}

func TestImportarSinFicherosFalla(t *testing.T) {
	router, _ := routerDePrueba(t)

	cuerpo := &bytes.Buffer{}
	escritor := multipart.NewWriter(cuerpo)
	escritor.WriteField("modo", "crear")
	escritor.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/importar", cuerpo)
	req.Header.Set("Content-Type", escritor.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("código %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "error") {
		t.Errorf("cuerpo: %s", resp.Body.String())
	}
}

func TestReimportarConservaID(t *testing.T) {
	router, _ := routerDePrueba(t)
	p := importaProyecto(t, router)

	cuerpo, tipo := cuerpoImportacion(t, "actualizar", p.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/importar", cuerpo)
	req.Header.Set("Content-Type", tipo)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("código %d, cuerpo %s", resp.Code, resp.Body.String())
	}
	var actualizado model.Promocion
	if err := json.Unmarshal(resp.Body.Bytes(), &actualizado); err != nil {
		t.Fatal(err)
	}
	if actualizado.ID != p.ID {
		t.Errorf("id = %q, se esperaba %q", actualizado.ID, p.ID)
	}
}

func TestListarViviendasConFiltros(t *testing.T) {
	router, _ := routerDePrueba(t)
	p := importaProyecto(t, router)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/proyectos/"+p.ID+"/viviendas?planta=1", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("código %d", resp.Code)
	}
	var viviendas []model.Vivienda
	if err := json.Unmarshal(resp.Body.Bytes(), &viviendas); err != nil {
		t.Fatal(err)
	}
	if len(viviendas) != 1 || viviendas[0].ID != "A-101" {
		t.Errorf("filtro de planta: %v", viviendas)
	}

	// Proyecto inexistente: 404 con mensaje.
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/proyectos/nadie/viviendas", nil))
	if resp.Code != http.StatusNotFound {
		t.Errorf("código %d", resp.Code)
	}
}

func TestActualizarViviendaPorHTTP(t *testing.T) {
	router, _ := routerDePrueba(t)
	p := importaProyecto(t, router)

	v := p.Viviendas[0]
	v.Estado = model.EstadoReservada
	cuerpo, _ := json.Marshal(v)
	req := httptest.NewRequest(http.MethodPut, "/api/proyectos/"+p.ID+"/viviendas/A-101", bytes.NewReader(cuerpo))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("código %d, cuerpo %s", resp.Code, resp.Body.String())
	}
	var actualizada model.Vivienda
	if err := json.Unmarshal(resp.Body.Bytes(), &actualizada); err != nil {
		t.Fatal(err)
	}
	if actualizada.Estado != model.EstadoReservada || actualizada.FechaReserva == "" {
		t.Errorf("vivienda: %+v", actualizada)
	}
}

func TestAccionMasivaPorHTTP(t *testing.T) {
	router, _ := routerDePrueba(t)
	p := importaProyecto(t, router)

	peticion := `{"viviendas":["A-101","A-102"],"cambio":{"estado":"Sold"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/proyectos/"+p.ID+"/viviendas/estado", strings.NewReader(peticion))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("código %d, cuerpo %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"actualizadas":2`) {
		t.Errorf("cuerpo: %s", resp.Body.String())
	}

	// El dashboard refleja el cambio.
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/proyectos/"+p.ID+"/dashboard", nil))
	var d core.Dashboard
	if err := json.Unmarshal(resp.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d.Resumen.Vendidas != 2 {
		t.Errorf("resumen: %+v", d.Resumen)
	}
}

func TestSeleccionPorHTTP(t *testing.T) {
	router, _ := routerDePrueba(t)
	p := importaProyecto(t, router)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/seleccion", nil))
	if !strings.Contains(resp.Body.String(), p.ID) {
		t.Errorf("el proyecto importado debe quedar seleccionado: %s", resp.Body.String())
	}

	req := httptest.NewRequest(http.MethodPut, "/api/seleccion", strings.NewReader(`{"seleccion":"no-existe"}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Errorf("una selección inexistente es 404: %d", resp.Code)
	}
}

func TestClientesPorHTTP(t *testing.T) {
	router, _ := routerDePrueba(t)

	cuerpo := `[{"id":"cli-1","nombre":"Laura","apellidos":"Garcia"},{"id":"cli-2","nombre":"Carlos"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/clientes", strings.NewReader(cuerpo))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("código %d, cuerpo %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/clientes?q=garcia", nil))
	var clientes []model.ClienteAumentado
	if err := json.Unmarshal(resp.Body.Bytes(), &clientes); err != nil {
		t.Fatal(err)
	}
	if len(clientes) != 1 || clientes[0].ID != "cli-1" {
		t.Errorf("búsqueda: %v", clientes)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/clientes/acciones",
		strings.NewReader(`{"clientes":["cli-2"],"cambios":{"tipo":"Optante"}}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if !strings.Contains(resp.Body.String(), `"actualizados":1`) {
		t.Errorf("acción masiva: %s", resp.Body.String())
	}
}

func TestEliminarProyectoPorHTTP(t *testing.T) {
	router, _ := routerDePrueba(t)
	p := importaProyecto(t, router)

	req := httptest.NewRequest(http.MethodDelete, "/api/proyectos/"+p.ID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("código %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/proyectos/"+p.ID, nil))
	if resp.Code != http.StatusNotFound {
		t.Errorf("el proyecto borrado ya no existe: %d", resp.Code)
	}
}
