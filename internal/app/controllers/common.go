package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/middleware"
	"github.com/yigit/clubsite/internal/pkg/helpers"
)

// bindJSON binds the request body and writes the 400 response on failure
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleBindError(c, err)
		return false
	}
	return true
}

// bindForm binds a multipart or urlencoded form and writes the 400 response on failure
func bindForm(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		middleware.HandleBindError(c, err)
		return false
	}
	return true
}

// pathID reads the named positive id parameter and writes the 400 response on failure
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := helpers.ParseIDParam(c, name)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return 0, false
	}
	return id, true
}

// formFiles returns the files posted under key or key[]
func formFiles(c *gin.Context, key string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	if files := form.File[key]; len(files) > 0 {
		return files
	}
	return form.File[key+"[]"]
}

func created(c *gin.Context, id int64, message string) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.IDResponse{ID: id}, message))
}

func ok(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data, message))
}

func paginated(c *gin.Context, data any, page dto.PaginationInfo) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(data, page))
}
