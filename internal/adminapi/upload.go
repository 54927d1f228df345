package adminapi

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vitrinedecor/catalogo/internal/webserver"
)

func registerUploadRoutes() {
	webserver.RootPOST("/upload", uploadImage)
}

// uploadImage accepts one multipart file under the "imagem" field and stores
// it below the assets dir with a generated unique name plus the original
// extension. The response shape is the storefront's contract:
// 200 {"arquivo": name, "path": "img/produtos/<name>"} or 400 {"error": msg}.
func uploadImage(c echo.Context) error {
	file, err := c.FormFile("imagem")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Nenhum arquivo enviado"})
	}

	a := webserver.GetApp(c)
	dir := a.Config().UploadDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	// snowflake token: unique by construction, never derived from the
	// original name
	name := a.IDs().Generate().Base36() + filepath.Ext(file.Filename)

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	zap.S().Infof("image uploaded: %s (%d bytes)", name, file.Size)
	return c.JSON(http.StatusOK, map[string]string{
		"arquivo": name,
		"path":    "img/produtos/" + name,
	})
}
