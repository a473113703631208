package httpapi

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/bbox-estimator/internal/detection"
	"github.com/ironsheep/bbox-estimator/internal/estimator"
	"github.com/ironsheep/bbox-estimator/internal/imaging"
	"github.com/ironsheep/bbox-estimator/internal/report"
)

// estimateRequest is the non-upload form of the request. It binds from JSON,
// urlencoded and multipart bodies alike.
type estimateRequest struct {
	ImagePath string `json:"image_path" form:"image_path"`
}

var errPathTraversal = errors.New("image_path must not leave the image root")

// multipartOverhead is added to MaxFileSize when capping the whole request
// body, to leave room for boundaries and part headers.
const multipartOverhead = 64 * 1024

// HandleEstimate estimates the box of an uploaded image (field "image") or
// of a file under the image root (field "image_path").
func HandleEstimate(c *gin.Context, est *estimator.Estimator, config *Config) {
	limit := config.MaxFileSize + multipartOverhead
	if c.Request.ContentLength > limit {
		failTooLarge(c, config)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	file, header, err := c.Request.FormFile("image")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		failTooLarge(c, config)
		return
	}
	if err == nil {
		defer file.Close()
		handleUpload(c, est, config, file, header)
		return
	}

	var req estimateRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.ImagePath) == "" {
		fail(c, http.StatusUnprocessableEntity, "image or image_path is required")
		return
	}

	path, err := resolvePath(config.ImageRoot, req.ImagePath)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Printf("Image not found for estimation: %s", path)
		fail(c, http.StatusNotFound, "image not found")
		return
	}

	img, err := est.Load(path)
	if err != nil {
		log.Printf("Cannot estimate %s: %v", path, err)
		respond(c, detection.NotFound(), nil)
		return
	}
	respond(c, est.EstimateImage(img), img)
}

func handleUpload(c *gin.Context, est *estimator.Estimator, config *Config, file multipart.File, header *multipart.FileHeader) {
	if header.Size > config.MaxFileSize {
		fail(c, http.StatusBadRequest,
			fmt.Sprintf("file size %d exceeds maximum allowed %d bytes", header.Size, config.MaxFileSize))
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		log.Printf("Cannot estimate upload %q: %v", header.Filename, err)
		respond(c, detection.NotFound(), nil)
		return
	}
	respond(c, est.EstimateImage(img), img)
}

// resolvePath joins rel onto root, refusing any path with a ".." element.
func resolvePath(root, rel string) (string, error) {
	rel = filepath.ToSlash(strings.TrimSpace(rel))
	for _, part := range strings.Split(rel, "/") {
		if part == ".." {
			return "", errPathTraversal
		}
	}
	return filepath.Join(root, filepath.FromSlash(strings.TrimLeft(rel, "/"))), nil
}

func respond(c *gin.Context, result detection.Result, img image.Image) {
	resp := report.FromResult(result)
	relative := report.RelativeBoxes(result, 0, 0)
	if img != nil {
		b := img.Bounds()
		relative = report.RelativeBoxes(result, b.Dx(), b.Dy())
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         resp.Success,
		"bboxes":          resp.BBoxes,
		"relative_bboxes": relative,
	})
}

func failTooLarge(c *gin.Context, config *Config) {
	fail(c, http.StatusBadRequest,
		fmt.Sprintf("request body exceeds maximum allowed %d bytes", config.MaxFileSize))
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
