package statusapi

import (
	"embed"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

//go:embed dashboard/*
var embeddedDashboard embed.FS

func dashboardFS() static.ServeFileSystem {
	fs, err := static.EmbedFolder(embeddedDashboard, "dashboard")
	if err != nil {
		panic("statusapi: failed to load embedded dashboard: " + err.Error())
	}
	return fs
}

// mountDashboard serves the single-page status dashboard shell at "/". Unlike
// the reference's SPA mount, this has no Angular build step to gracefully
// fall back from — the dashboard is a single static index.html that links to
// /status, /history, and /swagger.
func mountDashboard(r *gin.Engine, logger *slog.Logger) {
	dist := dashboardFS()
	r.Use(static.Serve("/", dist))

	r.NoRoute(func(c *gin.Context) {
		index, err := dist.Open("index.html")
		if err != nil {
			if logger != nil {
				logger.Error("statusapi: failed to open dashboard index.html", "error", err)
			}
			c.Status(http.StatusNotFound)
			return
		}
		defer index.Close()
		stat, _ := index.Stat()
		http.ServeContent(c.Writer, c.Request, "index.html", stat.ModTime(), index)
	})
}
