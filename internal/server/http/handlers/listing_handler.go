package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/server/http/dto"
)

const (
	maxListingImages = 9
	maxListingVideos = 1
)

// ListingHandler serves the public catalog.
type ListingHandler struct {
	facade CatalogFacade
}

func NewListingHandler(facade CatalogFacade) *ListingHandler {
	return &ListingHandler{facade: facade}
}

// Search handles GET /api/listings.
func (h *ListingHandler) Search(c *gin.Context) {
	var q dto.ListingSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	listings, err := h.facade.SearchListings(c.Request.Context(), q.Query())
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

// Categories handles GET /api/listings/categories.
func (h *ListingHandler) Categories(c *gin.Context) {
	categories, err := h.facade.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoriesResponse{Envelope: dto.OK(""), Categories: categories})
}

// PriceReference handles GET /api/listings/price-reference.
func (h *ListingHandler) PriceReference(c *gin.Context) {
	var q dto.PriceReferenceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	refs, err := h.facade.PriceReference(c.Request.Context(), q.Category, q.Condition)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPriceReferenceResponse(refs))
}

// Get handles GET /api/listings/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	listing, err := h.facade.Listing(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListingDetailResponse{Envelope: dto.OK(""), Listing: dto.NewListingResponse(*listing)})
}

// Create handles multipart POST /api/listings with "images" and "video"
// file fields.
func (h *ListingHandler) Create(c *gin.Context) {
	var form dto.CreateListingForm
	if err := c.ShouldBindWith(&form, binding.FormMultipart); err != nil {
		respondBindError(c, err)
		return
	}
	in, err := form.Input()
	if err != nil {
		respondError(c, err)
		return
	}

	var images, videos []*multipart.FileHeader
	if mf := c.Request.MultipartForm; mf != nil {
		images = mf.File["images"]
		videos = mf.File["video"]
	}
	if len(images) == 0 {
		badRequest(c, "At least 1 image is required")
		return
	}
	if len(images) > maxListingImages || len(videos) > maxListingVideos {
		badRequest(c, "Too many files. Maximum 9 images and 1 video allowed.")
		return
	}

	uploads := make([]model.Upload, 0, len(images)+len(videos))
	uploads = appendUploads(uploads, images, model.MediaKindImage)
	uploads = appendUploads(uploads, videos, model.MediaKindVideo)

	listing, err := h.facade.CreateListing(c.Request.Context(), form.UserUID, in, uploads)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ListingDetailResponse{
		Envelope: dto.OK("Listing created successfully"),
		Listing:  dto.NewListingResponse(*listing),
	})
}

func appendUploads(dst []model.Upload, files []*multipart.FileHeader, kind model.MediaKind) []model.Upload {
	for _, fh := range files {
		dst = append(dst, model.Upload{
			Name: fh.Filename,
			Kind: kind,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return dst
}
