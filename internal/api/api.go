// Package api is the HTTP management surface of the keystore, served by gin.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/celerix-dev/celerix-keystore/internal/codec"
	"github.com/celerix-dev/celerix-keystore/internal/members"
	"github.com/celerix-dev/celerix-keystore/internal/prefs"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
	"github.com/celerix-dev/celerix-keystore/pkg/schema"
)

// PromptHeader carries the text shown by a credential challenge.
const PromptHeader = "X-Keystore-Prompt"

type Handler struct {
	Keychain keychain.SecureStore
	Prefs    *prefs.Store
	Members  members.Client
	Log      *slog.Logger
}

// Register mounts every route under /api.
func (h *Handler) Register(r gin.IRouter) {
	if h.Log == nil {
		h.Log = slog.Default()
	}

	g := r.Group("/api")
	{
		g.GET("/keys", h.ListKeys)

		g.POST("/secure/clear", h.ClearSecrets)
		g.GET("/secure/:key", h.GetSecret)
		g.PUT("/secure/:key", h.PutSecret)
		g.DELETE("/secure/:key", h.DeleteSecret)
		g.GET("/secure/:key/exists", h.SecretExists)
		g.POST("/secure/:key/incr", h.IncrementSecret)

		g.GET("/prefs", h.ListPrefs)
		g.GET("/prefs/:key", h.GetPref)
		g.PUT("/prefs/:key", h.PutPref)
		g.DELETE("/prefs/:key", h.DeletePref)

		g.GET("/members", h.ListMembers)
		g.POST("/members", h.AddMember)
		g.DELETE("/members/:id", h.DeleteMember)
	}
}

// --- Secure store ---

// ListKeys reports which registry keys hold a record.
func (h *Handler) ListKeys(c *gin.Context) {
	type entry struct {
		Key     string `json:"key"`
		Present bool   `json:"present"`
	}
	out := make([]entry, 0, len(keychain.AllKeys()))
	for _, k := range keychain.AllKeys() {
		out = append(out, entry{Key: string(k), Present: h.Keychain.Contains(c.Request.Context(), string(k))})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetSecret(c *gin.Context) {
	key := c.Param("key")

	var val any
	found, err := h.Keychain.Read(c.Request.Context(), key, c.GetHeader(PromptHeader), &val)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": val})
}

func (h *Handler) PutSecret(c *gin.Context) {
	key := c.Param("key")

	var query struct {
		Challenge bool `form:"challenge"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var val any
	if err := c.ShouldBindJSON(&val); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Keychain.Save(c.Request.Context(), key, val, query.Challenge); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) DeleteSecret(c *gin.Context) {
	if err := h.Keychain.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) SecretExists(c *gin.Context) {
	key := c.Param("key")
	c.JSON(http.StatusOK, gin.H{"key": key, "exists": h.Keychain.Contains(c.Request.Context(), key)})
}

func (h *Handler) ClearSecrets(c *gin.Context) {
	h.Keychain.ClearAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// IncrementSecret atomically adds "by" (default 1) to an integer entry,
// creating it when absent.
func (h *Handler) IncrementSecret(c *gin.Context) {
	input := struct {
		By int64 `json:"by"`
	}{By: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var result int64
	err := keychain.Update(c.Request.Context(), h.Keychain, c.Param("key"), func(cur *int64) *int64 {
		result = input.By
		if cur != nil {
			result += *cur
		}
		return &result
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": result})
}

// --- Preferences ---

func (h *Handler) ListPrefs(c *gin.Context) {
	keys, err := h.Prefs.Keys(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, keys)
}

func (h *Handler) GetPref(c *gin.Context) {
	key := c.Param("key")

	var val any
	found, err := h.Prefs.Read(c.Request.Context(), key, &val)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": val})
}

func (h *Handler) PutPref(c *gin.Context) {
	var val any
	if err := c.ShouldBindJSON(&val); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Prefs.Save(c.Request.Context(), c.Param("key"), val); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) DeletePref(c *gin.Context) {
	if err := h.Prefs.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// --- Members ---

func (h *Handler) ListMembers(c *gin.Context) {
	list, err := h.Members.FetchFamilyMembers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if list == nil {
		list = []schema.FamilyMember{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) AddMember(c *gin.Context) {
	var input struct {
		Name  string `json:"member_name" binding:"required"`
		Email string `json:"email_parent" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.Members.AddMember(c.Request.Context(), input.Name, input.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) DeleteMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}
	if err := h.Members.DeleteMember(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// fail maps domain errors to HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, keychain.ErrNotFound), errors.Is(err, members.ErrMemberNotFound):
		status = http.StatusNotFound
	case errors.Is(err, keychain.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, keychain.ErrDecodingFailure), errors.Is(err, codec.ErrDecode):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, keychain.ErrEncodingFailure), errors.Is(err, codec.ErrEncode),
		errors.Is(err, members.ErrInvalidMember), errors.Is(err, prefs.ErrEmptyKey):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.Log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
