package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/campusmarket/internal/server/http/dto"
)

// AccountHandler manages user profiles and the listings a user owns.
type AccountHandler struct {
	facade AccountFacade
}

func NewAccountHandler(facade AccountFacade) *AccountHandler {
	return &AccountHandler{facade: facade}
}

// Create handles POST /api/users.
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := h.facade.CreateUser(c.Request.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.UserDetailResponse{Envelope: dto.OK("User created successfully"), User: dto.NewUserResponse(*user)})
}

// Profile handles GET /api/users/:uid.
func (h *AccountHandler) Profile(c *gin.Context) {
	uid, ok := pathID(c, "uid")
	if !ok {
		return
	}
	user, err := h.facade.Profile(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserDetailResponse{Envelope: dto.OK(""), User: dto.NewUserResponse(*user)})
}

// Overview handles GET /api/users/:uid/overview.
func (h *AccountHandler) Overview(c *gin.Context) {
	uid, ok := pathID(c, "uid")
	if !ok {
		return
	}
	overview, err := h.facade.UserOverview(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserOverviewResponse(*overview))
}

// UpdateProfile handles PUT /api/users/:uid.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	uid, ok := pathID(c, "uid")
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := h.facade.UpdateProfile(c.Request.Context(), uid, req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserDetailResponse{Envelope: dto.OK("Profile updated"), User: dto.NewUserResponse(*user)})
}

// ChangePassword handles POST /api/users/:uid/password.
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	uid, ok := pathID(c, "uid")
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.facade.ChangePassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK("Password updated"))
}

// Listings handles GET /api/users/:uid/listings.
func (h *AccountHandler) Listings(c *gin.Context) {
	uid, ok := pathID(c, "uid")
	if !ok {
		return
	}
	listings, err := h.facade.MyListings(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListingListResponse{
		Envelope: dto.OK(""),
		Listings: dto.NewListingResponses(listings),
		Count:    len(listings),
	})
}

// UpdateListing handles PUT /api/users/:uid/listings/:id.
func (h *AccountHandler) UpdateListing(c *gin.Context) {
	uid, ok := pathID(c, "uid")
	if !ok {
		return
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form dto.ListingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBindError(c, err)
		return
	}
	in, err := form.Input()
	if err != nil {
		respondError(c, err)
		return
	}
	listing, err := h.facade.UpdateListing(c.Request.Context(), uid, listingID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListingDetailResponse{Envelope: dto.OK("Listing updated"), Listing: dto.NewListingResponse(*listing)})
}

// DeleteListing handles DELETE /api/users/:uid/listings/:id.
func (h *AccountHandler) DeleteListing(c *gin.Context) {
	uid, ok := pathID(c, "uid")
	if !ok {
		return
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.DeleteListing(c.Request.Context(), uid, listingID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK("Listing deleted"))
}
