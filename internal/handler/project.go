package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netgrid/backend/internal/core"
	"github.com/netgrid/backend/internal/model"
	"github.com/netgrid/backend/internal/store"
)

type ProjectHandler struct {
	core     *core.Core
	projects *store.ProjectStore
}

func NewProjectHandler(c *core.Core, projects *store.ProjectStore) *ProjectHandler {
	return &ProjectHandler{core: c, projects: projects}
}

// Get godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Success 200 {object} model.Project
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.GetProject(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// Put godoc
// @Summary Create or replace a project
// @Tags projects
// @Accept json
// @Produce json
// @Success 200 {object} model.Project
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/projects/{id} [put]
func (h *ProjectHandler) Put(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var project model.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	project.ID = id
	if err := h.projects.SaveProject(&project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// Export godoc
// @Summary Export offline device configs as one archive
// @Tags projects
// @Produce json
// @Success 200 {object} model.ExportResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/projects/{id}/export [post]
func (h *ProjectHandler) Export(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	name, data, err := h.core.GenerateDeviceIniConfigZipFile(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ExportResponse{
		FileName: name,
		Content:  base64.StdEncoding.EncodeToString(data),
	})
}

// ExportBaseline godoc
// @Summary Generate offline configs for devices of a design baseline
// @Tags projects
// @Accept json
// @Produce json
// @Success 200 {object} model.ImportResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/projects/{id}/baselines/{baselineId}/export [post]
func (h *ProjectHandler) ExportBaseline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	baselineID, ok := pathID(c, "baselineId")
	if !ok {
		return
	}
	var req model.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	files, err := h.core.GenerateDesignBaselineDeployDeviceIniConfigFile(id, baselineID, req.DeviceIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ImportResponse{Files: files})
}

// Import godoc
// @Summary Unpack a previously exported archive and re-index it
// @Tags projects
// @Accept json
// @Produce json
// @Success 200 {object} model.ImportResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/projects/{id}/import [post]
func (h *ProjectHandler) Import(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ArchivePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "archivePath is required"})
		return
	}

	project, err := h.projects.GetProject(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	files, err := h.core.ExportAndUnzipConfigFile(project, req.ArchivePath, req.DeviceIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ImportResponse{Files: files})
}
