package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/potensio/gii-backend/internal/http/response"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/ctxutil"
	"github.com/potensio/gii-backend/internal/platform/logger"
	"github.com/potensio/gii-backend/internal/services"
)

type addressRequest struct {
	Label       string `json:"label"`
	Recipient   string `json:"recipient"`
	Phone       string `json:"phone"`
	FullAddress string `json:"full_address"`
	Village     string `json:"village"`
	District    string `json:"district"`
	City        string `json:"city"`
	Province    string `json:"province"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	IsDefault   bool   `json:"is_default"`
}

func (r addressRequest) toInput() services.AddressInput {
	return services.AddressInput{
		Label:       r.Label,
		Recipient:   r.Recipient,
		Phone:       r.Phone,
		FullAddress: r.FullAddress,
		Village:     r.Village,
		District:    r.District,
		City:        r.City,
		Province:    r.Province,
		PostalCode:  r.PostalCode,
		Country:     r.Country,
		IsDefault:   r.IsDefault,
	}
}

type AddressHandler struct {
	log            *logger.Logger
	addressService services.AddressService
}

func NewAddressHandler(log *logger.Logger, addressService services.AddressService) *AddressHandler {
	return &AddressHandler{
		log:            log.With("Handler", "AddressHandler"),
		addressService: addressService,
	}
}

func (ah *AddressHandler) List(c *gin.Context) {
	id := ctxutil.GetIdentity(c.Request.Context())
	addresses, err := ah.addressService.List(c.Request.Context(), id.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "addresses", gin.H{"addresses": addresses})
}

func (ah *AddressHandler) Create(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.Validation("invalid_request", err))
		return
	}
	id := ctxutil.GetIdentity(c.Request.Context())
	address, err := ah.addressService.Create(c.Request.Context(), id.UserID, req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "address_created", gin.H{"address": address})
}

func (ah *AddressHandler) Update(c *gin.Context) {
	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.Validation("invalid_address_id", fmt.Errorf("parse address id: %w", err)))
		return
	}
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.Validation("invalid_request", err))
		return
	}
	id := ctxutil.GetIdentity(c.Request.Context())
	address, err := ah.addressService.Update(c.Request.Context(), addressID, id.UserID, req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "address_updated", gin.H{"address": address})
}

func (ah *AddressHandler) Delete(c *gin.Context) {
	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.Validation("invalid_address_id", fmt.Errorf("parse address id: %w", err)))
		return
	}
	id := ctxutil.GetIdentity(c.Request.Context())
	if err := ah.addressService.Delete(c.Request.Context(), addressID, id.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "address_deleted", nil)
}

func (ah *AddressHandler) SetDefault(c *gin.Context) {
	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apierr.Validation("invalid_address_id", fmt.Errorf("parse address id: %w", err)))
		return
	}
	id := ctxutil.GetIdentity(c.Request.Context())
	if err := ah.addressService.SetDefault(c.Request.Context(), addressID, id.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "default_address_set", nil)
}
