package handlers

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxImageBytes caps one uploaded image. The backends carry images
// inline as data-URI strings, so anything bigger is unusable anyway.
const maxImageBytes = 4 << 20

// readImageDataURI reads an optional uploaded file and encodes it as a
// data URI, the only image channel the backends accept. Returns "" when
// no file was attached.
func readImageDataURI(c *gin.Context, field string) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		// The upload field is optional on every form that carries it.
		return "", nil
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	if len(data) == 0 {
		return "", nil
	}

	mime := http.DetectContentType(data)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
