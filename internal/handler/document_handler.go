package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"document_manager/internal/middleware"
	"document_manager/internal/model"
	"document_manager/internal/repository"
	"document_manager/internal/service"

	"github.com/gin-gonic/gin"
)

// DocumentHandler handles document and document-type requests
type DocumentHandler struct {
	service service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(s service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: s}
}

func (h *DocumentHandler) GetDocuments(c *gin.Context) {
	documents, err := h.service.List(c.Request.Context())
	if err != nil {
		log.Printf("Error listing documents: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve documents"})
		return
	}
	if documents == nil {
		documents = []model.Document{}
	}
	c.JSON(http.StatusOK, documents)
}

func (h *DocumentHandler) AddDocument(c *gin.Context) {
	actor, err := middleware.GetAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CreateDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var upload *service.DocumentUpload
	fileHeader, err := c.FormFile("file_upload")
	if err == nil && fileHeader != nil {
		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
			return
		}
		defer src.Close()
		upload = &service.DocumentUpload{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Content:     src,
		}
	}

	doc, err := h.service.Create(c.Request.Context(), actor, req, upload)
	if err != nil {
		respondDocumentError(c, err, "Failed to create document")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	actor, err := middleware.GetAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	var req model.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	doc, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		respondDocumentError(c, err, "Failed to update document")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	actor, err := middleware.GetAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		respondDocumentError(c, err, "Failed to delete document")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Success"})
}

func (h *DocumentHandler) GetDocumentTypes(c *gin.Context) {
	types, err := h.service.ListTypes(c.Request.Context())
	if err != nil {
		log.Printf("Error listing document types: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve document types"})
		return
	}
	if types == nil {
		types = []model.DocumentType{}
	}
	c.JSON(http.StatusOK, types)
}

func (h *DocumentHandler) AddDocumentType(c *gin.Context) {
	actor, err := middleware.GetAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.AddDocumentTypeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	docType, err := h.service.AddType(c.Request.Context(), actor, req.Title)
	if err != nil {
		respondDocumentError(c, err, "Failed to create document type")
		return
	}
	c.JSON(http.StatusOK, docType)
}

// respondDocumentError maps document lifecycle sentinels to statuses
func respondDocumentError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
	case errors.Is(err, service.ErrDocumentNotFound), errors.Is(err, service.ErrDocTypeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "N/A"})
	case errors.Is(err, service.ErrInvalidDocumentType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document type"})
	case errors.Is(err, service.ErrSlugExhausted), errors.Is(err, repository.ErrDuplicateSlug):
		c.JSON(http.StatusConflict, gin.H{"error": "Could not allocate a unique slug, retry the request"})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// RegisterDocumentRoutes registers document routes; every route requires auth.
// Document type creation is level-only, so the editor gate sits on the route.
func (h *DocumentHandler) RegisterDocumentRoutes(rg *gin.RouterGroup, authMW, editorMW gin.HandlerFunc) {
	docGroup := rg.Group("/document", authMW)
	{
		docGroup.GET("/get", h.GetDocuments)
		docGroup.POST("/add", h.AddDocument)
		docGroup.PUT("/update/:id", h.UpdateDocument)
		docGroup.DELETE("/delete/:id", h.DeleteDocument)
		docGroup.GET("/doctype/get", h.GetDocumentTypes)
		docGroup.POST("/doctype/add", editorMW, h.AddDocumentType)
	}
}
