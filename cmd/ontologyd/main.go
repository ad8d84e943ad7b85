// Command ontologyd is a minimal demo boot binary: it loads an adapter
// manifest, constructs an empty ontology registry and a HITL strategy from
// the manifest's policy section, and serves a thin gin HTTP surface (health,
// schema export, HITL policy check) so the core can be exercised outside of
// tests. Grounded on the teacher's cmd/tarsy/main.go boot sequence.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/aipms-go/ontology/pkg/config"
	"github.com/aipms-go/ontology/pkg/hitl"
	"github.com/aipms-go/ontology/pkg/ontology"
	"github.com/aipms-go/ontology/pkg/version"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	envFile := flag.String("env-file", ".env", "path to .env file (optional)")
	manifestPath := flag.String("manifest", "adapter.yaml", "path to the adapter manifest YAML file")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		slog.Warn("ontologyd: no .env file loaded", "path", *envFile, "err", err)
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	manifest, err := config.Load(*manifestPath)
	if err != nil {
		slog.Warn("ontologyd: no adapter manifest loaded, using defaults", "path", *manifestPath, "err", err)
		defaults := config.Default()
		manifest = &defaults
	}
	strategy := buildHITLStrategy(manifest.HITLPolicy)

	registry := ontology.New()

	router := gin.Default()
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Full()})
	})
	router.GET("/schema", func(c *gin.Context) {
		c.JSON(http.StatusOK, registry.ExportSchema())
	})
	router.POST("/hitl/check", func(c *gin.Context) {
		var req hitl.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, strategy.RequiresConfirmation(req))
	})

	slog.Info("ontologyd: starting", "addr", *addr, "version", version.Full(), "manifest", manifest.Name)
	if err := router.Run(*addr); err != nil {
		slog.Error("ontologyd: server exited", "err", err)
		os.Exit(1)
	}
}
