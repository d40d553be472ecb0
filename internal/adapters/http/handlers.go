package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	coreerrors "itsync/internal/core/errors"
	"itsync/internal/core/ports"
	"itsync/pkg/utils"
)

// Services are the sync services exposed over HTTP. A nil service means its
// integration is not configured; its routes answer 503.
type Services struct {
	Network     ports.NetworkSyncService
	ServiceDesk ports.ServiceDeskSyncService
	Directory   ports.DirectorySyncService
}

type Handler struct {
	svcs Services
	log  zerolog.Logger
}

// NewHandler constructs a handler over the given services.
func NewHandler(svcs Services, log zerolog.Logger) *Handler {
	return &Handler{svcs: svcs, log: log}
}

// PostMerakiSync godoc
// @Summary Sync network devices
// @Description Fetch network devices and their status history, compute uptime over the reporting window and store them.
// @Tags sync
// @Produce json
// @Success 200 {object} SyncResponse
// @Failure 500 {object} SyncResponse
// @Failure 503 {object} SyncResponse
// @Router /api/v1/sync/meraki [post]
func (h *Handler) PostMerakiSync(c *gin.Context) {
	if h.svcs.Network == nil {
		h.notConfigured(c, "meraki")
		return
	}

	h.runSync(c, "Meraki sync completed", h.svcs.Network.SyncDevices)
}

// PostFreshserviceSync godoc
// @Summary Sync service desk tickets and assets
// @Description Fetch recently updated tickets, agents and assets and store them.
// @Tags sync
// @Produce json
// @Success 200 {object} SyncResponse
// @Failure 500 {object} SyncResponse
// @Failure 503 {object} SyncResponse
// @Router /api/v1/sync/freshservice [post]
func (h *Handler) PostFreshserviceSync(c *gin.Context) {
	if h.svcs.ServiceDesk == nil {
		h.notConfigured(c, "freshservice")
		return
	}

	h.runSync(c, "Freshservice sync completed", h.svcs.ServiceDesk.SyncAll)
}

// PostAzureSync godoc
// @Summary Sync directory locations and users
// @Tags sync
// @Produce json
// @Success 200 {object} SyncResponse
// @Failure 500 {object} SyncResponse
// @Failure 503 {object} SyncResponse
// @Router /api/v1/sync/azure [post]
func (h *Handler) PostAzureSync(c *gin.Context) {
	if h.svcs.Directory == nil {
		h.notConfigured(c, "azure")
		return
	}

	h.runSync(c, "Azure sync completed", h.svcs.Directory.SyncAll)
}

// PostAzureUsersSync godoc
// @Summary Sync directory users
// @Tags sync
// @Produce json
// @Success 200 {object} SyncResponse
// @Failure 500 {object} SyncResponse
// @Failure 503 {object} SyncResponse
// @Router /api/v1/sync/azure/users [post]
func (h *Handler) PostAzureUsersSync(c *gin.Context) {
	if h.svcs.Directory == nil {
		h.notConfigured(c, "azure")
		return
	}

	h.runSync(c, "Azure user sync completed", h.svcs.Directory.SyncUsers)
}

// PostAzureLocationsSync godoc
// @Summary Sync office locations
// @Tags sync
// @Produce json
// @Success 200 {object} SyncResponse
// @Failure 500 {object} SyncResponse
// @Failure 503 {object} SyncResponse
// @Router /api/v1/sync/azure/locations [post]
func (h *Handler) PostAzureLocationsSync(c *gin.Context) {
	if h.svcs.Directory == nil {
		h.notConfigured(c, "azure")
		return
	}

	h.runSync(c, "Azure location sync completed", h.svcs.Directory.SyncLocations)
}

// GetNetworkDevice godoc
// @Summary Get a network device
// @Description Return a stored network device with its last computed uptime.
// @Tags network-devices
// @Produce json
// @Param serial path string true "Device serial"
// @Success 200 {object} NetworkDeviceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/network-devices/{serial} [get]
func (h *Handler) GetNetworkDevice(c *gin.Context) {
	serial := c.Param("serial")

	if !utils.IsSerial(serial) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Msg: "Invalid device serial"})
		return
	}

	if h.svcs.Network == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Msg: "meraki integration is not configured"})
		return
	}

	rec, err := h.svcs.Network.GetDevice(c.Request.Context(), serial)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusNotFound {
			c.JSON(status, ErrorResponse{Msg: "device not found"})
			return
		}
		if status == http.StatusInternalServerError {
			h.log.Error().Err(err).Str("serial", serial).Msg("get network device failed")
			c.JSON(status, ErrorResponse{Msg: "internal error"})
			return
		}
		c.JSON(status, ErrorResponse{Msg: err.Error()})
		return
	}

	c.JSON(http.StatusOK, newNetworkDeviceResponse(rec))
}

func (h *Handler) runSync(c *gin.Context, message string, sync func(context.Context) (*ports.SyncResult, error)) {
	res, err := sync(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("sync failed")
		c.JSON(statusFor(err), SyncResponse{Success: false, Message: "sync failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, newSyncResponse(message, res))
}

func (h *Handler) notConfigured(c *gin.Context, integration string) {
	c.JSON(http.StatusServiceUnavailable, SyncResponse{
		Success: false,
		Message: integration + " integration is not configured",
	})
}

// statusFor maps a core error kind to an HTTP status.
func statusFor(err error) int {
	kind, ok := coreerrors.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch kind {
	case coreerrors.KindInvalidInput:
		return http.StatusBadRequest
	case coreerrors.KindNotFound:
		return http.StatusNotFound
	case coreerrors.KindNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
