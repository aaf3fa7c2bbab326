package main

import (
	"context"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/tilecollide/assets"
	"github.com/automoto/tilecollide/config"
	"github.com/automoto/tilecollide/fonts"
	"github.com/automoto/tilecollide/logging"
	"github.com/automoto/tilecollide/scenes"
	"github.com/automoto/tilecollide/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Game struct {
	scene *scenes.ViewerScene
}

func (g *Game) Update() error {
	return g.scene.Update()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	return config.C.Width, config.C.Height
}

func main() {
	envFile := flag.String("env", ".env", "Environment file loaded before the config (ignored when missing)")
	configPath := flag.String("config", "", "YAML config file")
	dir := flag.String("dir", "", "On-disk tileset directory, watched for changes (overrides viewer.tileset_dir)")
	mapPath := flag.String("map", "", "TMX map to show instead of the tileset sheets (overrides viewer.map)")
	flag.Parse()

	_ = godotenv.Load(*envFile)
	if err := config.Load(*configPath); err != nil {
		logrus.Fatalf("config: %v", err)
	}
	if *dir != "" {
		config.Viewer.TilesetDir = *dir
	}
	if *mapPath != "" {
		config.Viewer.Map = *mapPath
	}

	log, err := logging.Setup(config.Log)
	if err != nil {
		logrus.Fatalf("logging: %v", err)
	}

	var fsys fs.FS = assets.Tilesets()
	root := assets.TilesetDir
	if config.Viewer.TilesetDir != "" {
		fsys, root = os.DirFS(config.Viewer.TilesetDir), "."
	}
	catalog, err := assets.NewCatalog(fsys, root, assets.CatalogOptions{
		NumCounters: config.Catalog.NumCounters,
		MaxCost:     config.Catalog.MaxCost,
		Logger:      log,
	})
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	defer catalog.Close()
	if err := catalog.LoadAll(); err != nil {
		log.Fatalf("load tilesets: %v", err)
	}

	if err := fonts.LoadDefaults(config.UI.HUDFontSize); err != nil {
		log.Fatalf("fonts: %v", err)
	}

	if err := systems.InitPersistence(); err != nil {
		log.WithError(err).Warn("could not initialize persistence")
	}
	scene := scenes.NewViewerScene(catalog, systems.LoadSettings())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if config.Viewer.TilesetDir != "" {
		go func() {
			if err := catalog.Watch(ctx, config.Viewer.TilesetDir, scene.OnReload); err != nil {
				log.WithError(err).Warn("tileset hot reload disabled")
			}
		}()
	}

	ebiten.SetWindowTitle(config.C.Title)
	ebiten.SetWindowSize(config.C.Width*config.C.Scale, config.C.Height*config.C.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(&Game{scene: scene}); err != nil {
		log.Fatal(err)
	}
}
