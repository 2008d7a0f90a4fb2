package api

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"lanhub/config"
	"lanhub/store"
	"lanhub/utils"
)

// UploadHandler runs the multipart ingestion pipeline. Every file part is
// validated and staged first; only a fully valid request is committed, so a
// rejected request never leaves a partial set of new files behind
// (all-or-nothing per request).
// @Summary      Upload Files
// @Description  Accepts a multipart/form-data body and stores every file part in the uploads directory under its sanitized name. A validation failure on any part rejects the whole request. Plain form fields are ignored.
// @Tags         Files
// @Accept       multipart/form-data
// @Produce      plain
// @Success      200  {string}  string "File uploaded successfully"
// @Failure      400  {object}  utils.APIError "Not multipart, malformed body, disallowed file type, or no file parts."
// @Failure      411  {object}  utils.APIError "Missing or malformed Content-Length."
// @Failure      413  {object}  utils.APIError "Declared or actual payload exceeds the maximum."
// @Failure      507  {object}  utils.APIError "Insufficient free disk space."
// @Router       / [post]
func UploadHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	declared := c.Request.ContentLength
	if declared < 0 {
		utils.GinLengthRequired(c, "Content-Length header is required.")
		return
	}
	if declared > cfg.MaxUploadBytes {
		utils.GinPayloadTooLarge(c, "Declared upload size exceeds the maximum allowed.")
		return
	}

	mediaType, params, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" || params["boundary"] == "" {
		utils.GinBadRequest(c, "Content-Type must be multipart/form-data with a boundary.")
		return
	}

	reader := multipart.NewReader(c.Request.Body, params["boundary"])
	var staged []store.StagedFile
	discard := func() { st.DiscardStaged(staged) }

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			discard()
			utils.GinBadRequest(c, "Malformed multipart body.")
			return
		}

		rawName := part.FileName()
		if rawName == "" {
			// Plain form field, not a file.
			continue
		}

		name := utils.SanitizeFilename(filepath.Base(rawName))
		if name == "" || !utils.IsAllowedExtension(name) || !utils.IsAllowedMimeType(name) {
			discard()
			utils.GinBadRequest(c, "File type not allowed: "+rawName)
			return
		}

		// The declared request length bounds every part's payload, so free
		// space beyond it guarantees room for this part.
		ok, err := utils.CheckDiskSpace(st.UploadsDir, declared)
		if err != nil {
			discard()
			utils.GinInternalServerError(c, "Failed to check disk space: "+err.Error())
			return
		}
		if !ok {
			discard()
			utils.GinInsufficientStorage(c, "Insufficient disk space for upload.")
			return
		}

		sf, err := st.StageFile(name, part, cfg.MaxUploadBytes)
		if err != nil {
			discard()
			if errors.Is(err, store.ErrFileTooLarge) {
				utils.GinPayloadTooLarge(c, "File exceeds the maximum allowed size: "+name)
				return
			}
			utils.GinInternalServerError(c, "Failed to store upload: "+err.Error())
			return
		}
		staged = append(staged, sf)
	}

	if len(staged) == 0 {
		utils.GinBadRequest(c, "Upload contained no files.")
		return
	}

	if err := st.CommitStaged(staged); err != nil {
		utils.GinInternalServerError(c, "Failed to save uploads: "+err.Error())
		return
	}

	c.String(http.StatusOK, "File uploaded successfully")
}

// ListFilesHandler returns metadata for every uploaded file.
// @Summary      List Uploaded Files
// @Description  Returns name, size, extension and MIME type for every file in the uploads directory.
// @Tags         Files
// @Produce      json
// @Success      200  {array}   models.FileInfo "Uploaded files, sorted by name."
// @Failure      500  {object}  utils.APIError "Uploads directory could not be read."
// @Router       /files [get]
func ListFilesHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	files, err := st.ListFiles()
	if err != nil {
		utils.GinInternalServerError(c, "Failed to list files: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, files)
}

// DeleteFileHandler removes one uploaded file by name.
// @Summary      Delete an Uploaded File
// @Description  Sanitizes the given name and removes the matching file from the uploads directory.
// @Tags         Files
// @Produce      plain
// @Param        name path string true "The filename to delete."
// @Success      200  {string}  string "File deleted"
// @Failure      404  {object}  utils.APIError "No such file."
// @Router       /delete_file/{name} [delete]
func DeleteFileHandler(c *gin.Context, st *store.Store, cfg *config.Config) {
	name := utils.SanitizeFilename(c.Param("name"))

	err := st.DeleteFile(name)
	if errors.Is(err, store.ErrFileNotFound) {
		utils.GinNotFound(c, "File not found: "+name)
		return
	}
	if err != nil {
		utils.GinInternalServerError(c, "Failed to delete file: "+err.Error())
		return
	}

	c.String(http.StatusOK, "File deleted")
}

// NewFallbackHandler builds the handler for requests no explicit route
// matched. GET resolves the path against the web root: a regular file with an
// allowed extension streams back as an attachment with its derived MIME type
// (403 for disallowed extensions); anything else falls through to static
// serving with directory listings. POST to any unmatched path runs the upload
// pipeline. Other methods get a 404.
func NewFallbackHandler(st *store.Store, cfg *config.Config) gin.HandlerFunc {
	fileServer := http.FileServer(http.Dir(cfg.BaseDir))

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead:
			serveStatic(c, cfg, fileServer)
		case http.MethodPost:
			UploadHandler(c, st, cfg)
		default:
			utils.GinNotFound(c, "Not found.")
		}
	}
}

func serveStatic(c *gin.Context, cfg *config.Config, fileServer http.Handler) {
	// Collapse any ".." segments before touching the filesystem.
	cleaned := path.Clean("/" + c.Request.URL.Path)
	target := filepath.Join(cfg.BaseDir, filepath.FromSlash(cleaned))
	if target != cfg.BaseDir && !strings.HasPrefix(target, cfg.BaseDir+string(os.PathSeparator)) {
		utils.GinNotFound(c, "Not found.")
		return
	}

	info, err := os.Stat(target)
	if err == nil && info.Mode().IsRegular() {
		name := utils.SanitizeFilename(filepath.Base(target))
		if !utils.IsAllowedExtension(name) {
			utils.GinForbidden(c, "File type not allowed for download.")
			return
		}
		c.Header("Content-Type", utils.MimeTypeByName(name))
		c.FileAttachment(target, name)
		return
	}

	// Directory listing / index fallback for everything else.
	fileServer.ServeHTTP(c.Writer, c.Request)
}
