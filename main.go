package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"architech/cnf"
	"architech/core"
	"architech/db"
	"architech/web/handlers"
)

func main() {
	config, err := cnf.LoadConfig("cnf/config.cfg")
	if err != nil {
		log.Fatal(err)
	}
	appCfg, err := cnf.ParseConfig(config)
	if err != nil {
		log.Fatal(err)
	}

	// El config.yaml, si existe, manda sobre el fichero plano para la base
	// de datos.
	settings := appCfg.DBSettings()
	if yamlSettings, err := cnf.LoadYamlConfig("cnf/config.yaml"); err == nil {
		settings = *yamlSettings
	}

	dbManager, err := db.GetDBManager(db.Config{
		Engine:   settings.Engine,
		Path:     settings.Path,
		Host:     settings.Host,
		Port:     settings.Port,
		User:     settings.User,
		Password: settings.Password,
		Name:     settings.Name,
		SSLMode:  settings.SSLMode,
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := dbManager.Init(); err != nil {
		log.Fatal(err)
	}
	defer dbManager.Close()

	app := core.NewApp(db.NewStore(dbManager))

	router := httprouter.New()
	handlers.NewAPI(app).Registrar(router)
	router.GET("/", handlers.IndexHandler())
	router.Handler(http.MethodGet, "/static/*filepath", handlers.StaticHandler())

	fmt.Println("Servidor corriendo en http://localhost:" + appCfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+appCfg.HTTPPort, router))
}
