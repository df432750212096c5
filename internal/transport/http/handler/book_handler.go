package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/dto"
	"bookstore-api/internal/transport/http/ez"
)

type BookHandler struct {
	repo domain.BookRepository
	log  *zap.Logger
}

func NewBookHandler(r domain.BookRepository, l *zap.Logger) *BookHandler {
	return &BookHandler{repo: r, log: l}
}

func (h *BookHandler) Priority() int { return 20 }

func (h *BookHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/books"), h.log)

	ez.RegisterAction(e, ez.Action[struct{}, []dto.Book]{
		Name:    "Books - GetBooks",
		Method:  http.MethodGet,
		Path:    "",
		Handler: h.list,
	})
	ez.RegisterAction(e, ez.Action[struct{}, dto.Book]{
		Name:    "Books - GetBook",
		Method:  http.MethodGet,
		Path:    "/:id",
		Roles:   []string{domain.RoleAdministrator},
		Handler: h.get,
	})
	ez.RegisterAction(e, ez.Action[dto.BookCreate, dto.Book]{
		Name:    "Books - Create",
		Method:  http.MethodPost,
		Path:    "",
		Binder:  ez.BindJSON,
		Roles:   []string{domain.RoleAdministrator},
		Status:  http.StatusCreated,
		Handler: h.create,
	})
	ez.RegisterAction(e, ez.Action[dto.BookUpdate, struct{}]{
		Name:    "Books - Update",
		Method:  http.MethodPut,
		Path:    "/:id",
		Binder:  ez.BindJSON,
		Roles:   []string{domain.RoleAdministrator},
		Status:  http.StatusNoContent,
		Handler: h.update,
	})
	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Name:    "Books - Delete",
		Method:  http.MethodDelete,
		Path:    "/:id",
		Roles:   []string{domain.RoleAdministrator},
		Status:  http.StatusNoContent,
		Handler: h.delete,
	})
}

func (h *BookHandler) list(c *gin.Context, _ *struct{}) ([]dto.Book, error) {
	const loc = "Books - GetBooks"
	h.log.Info(loc + ": attempted to get all books")

	books, err := h.repo.WithContext(c.Request.Context()).FindAll()
	if err != nil {
		return nil, err
	}
	h.log.Info(loc+": returned all books", zap.Int("count", len(books)))
	return dto.BooksFromEntities(books), nil
}

func (h *BookHandler) get(c *gin.Context, _ *struct{}) (dto.Book, error) {
	const loc = "Books - GetBook"
	id, err := ez.ParamID(c)
	if err != nil {
		return dto.Book{}, err
	}
	h.log.Info(loc+": attempted to get book", zap.Int("id", id))

	b, err := h.repo.WithContext(c.Request.Context()).FindByID(id)
	if err != nil {
		return dto.Book{}, err
	}
	if b == nil {
		h.log.Warn(loc+": book not found", zap.Int("id", id))
		return dto.Book{}, ez.NotFound("book not found")
	}
	return dto.BookFromEntity(b), nil
}

func (h *BookHandler) create(c *gin.Context, in *dto.BookCreate) (dto.Book, error) {
	const loc = "Books - Create"
	h.log.Info(loc + ": book creation attempted")

	b := in.ToEntity()
	ok, err := h.repo.WithContext(c.Request.Context()).Create(b)
	if err != nil {
		return dto.Book{}, ez.Internal(loc+": book creation failed", err)
	}
	if !ok {
		return dto.Book{}, ez.Internal(loc+": book creation was not persisted", nil)
	}
	h.log.Info(loc+": book created", zap.Int("id", b.ID))
	setLocation(c, b.ID)
	return dto.BookFromEntity(b), nil
}

func (h *BookHandler) update(c *gin.Context, in *dto.BookUpdate) (struct{}, error) {
	const loc = "Books - Update"
	id, err := ez.ParamID(c)
	if err != nil {
		return struct{}{}, err
	}
	if in.ID != id {
		return struct{}{}, ez.BadRequest("id in body does not match id in path")
	}
	h.log.Info(loc+": book update attempted", zap.Int("id", id))

	repo := h.repo.WithContext(c.Request.Context())
	exists, err := repo.IsExists(id)
	if err != nil {
		return struct{}{}, ez.Internal(loc+": existence check failed", err)
	}
	if !exists {
		h.log.Warn(loc+": book not found", zap.Int("id", id))
		return struct{}{}, ez.NotFound("book not found")
	}

	ok, err := repo.Update(in.ToEntity())
	if err != nil {
		return struct{}{}, ez.Internal(loc+": book update failed", err)
	}
	if !ok {
		return struct{}{}, ez.Internal(loc+": book update was not persisted", nil)
	}
	h.log.Info(loc+": book updated", zap.Int("id", id))
	return struct{}{}, nil
}

func (h *BookHandler) delete(c *gin.Context, _ *struct{}) (struct{}, error) {
	const loc = "Books - Delete"
	id, err := ez.ParamID(c)
	if err != nil {
		return struct{}{}, err
	}
	h.log.Info(loc+": book deletion attempted", zap.Int("id", id))

	repo := h.repo.WithContext(c.Request.Context())
	exists, err := repo.IsExists(id)
	if err != nil {
		return struct{}{}, ez.Internal(loc+": existence check failed", err)
	}
	if !exists {
		h.log.Warn(loc+": book not found", zap.Int("id", id))
		return struct{}{}, ez.NotFound("book not found")
	}
	b, err := repo.FindByID(id)
	if err != nil {
		return struct{}{}, ez.Internal(loc+": book lookup failed", err)
	}
	if b == nil {
		return struct{}{}, ez.NotFound("book not found")
	}

	ok, err := repo.Delete(b)
	if err != nil {
		return struct{}{}, ez.Internal(loc+": book deletion failed", err)
	}
	if !ok {
		return struct{}{}, ez.Internal(loc+": book deletion was not persisted", nil)
	}
	h.log.Info(loc+": book deleted", zap.Int("id", id))
	return struct{}{}, nil
}
