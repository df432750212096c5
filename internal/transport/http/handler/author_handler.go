package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/dto"
	"bookstore-api/internal/transport/http/ez"
)

type AuthorHandler struct {
	repo domain.AuthorRepository
	log  *zap.Logger
}

func NewAuthorHandler(r domain.AuthorRepository, l *zap.Logger) *AuthorHandler {
	return &AuthorHandler{repo: r, log: l}
}

func (h *AuthorHandler) Priority() int { return 10 }

func (h *AuthorHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/authors"), h.log)

	ez.RegisterAction(e, ez.Action[struct{}, []dto.Author]{
		Name:    "Authors - GetAuthors",
		Method:  http.MethodGet,
		Path:    "",
		Handler: h.list,
	})
	ez.RegisterAction(e, ez.Action[struct{}, dto.Author]{
		Name:    "Authors - GetAuthor",
		Method:  http.MethodGet,
		Path:    "/:id",
		Handler: h.get,
	})
	ez.RegisterAction(e, ez.Action[dto.AuthorCreate, dto.Author]{
		Name:    "Authors - Create",
		Method:  http.MethodPost,
		Path:    "",
		Binder:  ez.BindJSON,
		Roles:   []string{domain.RoleAdministrator},
		Status:  http.StatusCreated,
		Handler: h.create,
	})
	ez.RegisterAction(e, ez.Action[dto.AuthorUpdate, struct{}]{
		Name:    "Authors - Update",
		Method:  http.MethodPut,
		Path:    "/:id",
		Binder:  ez.BindJSON,
		Roles:   []string{domain.RoleAdministrator, domain.RoleCustomer},
		Status:  http.StatusNoContent,
		Handler: h.update,
	})
	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Name:    "Authors - Delete",
		Method:  http.MethodDelete,
		Path:    "/:id",
		Roles:   []string{domain.RoleCustomer},
		Status:  http.StatusNoContent,
		Handler: h.delete,
	})
}

func (h *AuthorHandler) list(c *gin.Context, _ *struct{}) ([]dto.Author, error) {
	const loc = "Authors - GetAuthors"
	h.log.Info(loc + ": attempted to get all authors")

	authors, err := h.repo.WithContext(c.Request.Context()).FindAll()
	if err != nil {
		return nil, err
	}
	h.log.Info(loc+": returned all authors", zap.Int("count", len(authors)))
	return dto.AuthorsFromEntities(authors), nil
}

func (h *AuthorHandler) get(c *gin.Context, _ *struct{}) (dto.Author, error) {
	const loc = "Authors - GetAuthor"
	id, err := ez.ParamID(c)
	if err != nil {
		return dto.Author{}, err
	}
	h.log.Info(loc+": attempted to get author", zap.Int("id", id))

	a, err := h.repo.WithContext(c.Request.Context()).FindByID(id)
	if err != nil {
		return dto.Author{}, err
	}
	if a == nil {
		h.log.Warn(loc+": author not found", zap.Int("id", id))
		return dto.Author{}, ez.NotFound("author not found")
	}
	return dto.AuthorFromEntity(a), nil
}

func (h *AuthorHandler) create(c *gin.Context, in *dto.AuthorCreate) (dto.Author, error) {
	const loc = "Authors - Create"
	h.log.Info(loc + ": author creation attempted")

	a := in.ToEntity()
	ok, err := h.repo.WithContext(c.Request.Context()).Create(a)
	if err != nil {
		return dto.Author{}, ez.Internal(loc+": author creation failed", err)
	}
	if !ok {
		return dto.Author{}, ez.Internal(loc+": author creation was not persisted", nil)
	}
	h.log.Info(loc+": author created", zap.Int("id", a.ID))
	setLocation(c, a.ID)
	return dto.AuthorFromEntity(a), nil
}

func (h *AuthorHandler) update(c *gin.Context, in *dto.AuthorUpdate) (struct{}, error) {
	const loc = "Authors - Update"
	id, err := ez.ParamID(c)
	if err != nil {
		return struct{}{}, err
	}
	if in.ID != id {
		return struct{}{}, ez.BadRequest("id in body does not match id in path")
	}
	h.log.Info(loc+": author update attempted", zap.Int("id", id))

	repo := h.repo.WithContext(c.Request.Context())
	exists, err := repo.IsExists(id)
	if err != nil {
		return struct{}{}, ez.Internal(loc+": existence check failed", err)
	}
	if !exists {
		h.log.Warn(loc+": author not found", zap.Int("id", id))
		return struct{}{}, ez.NotFound("author not found")
	}

	ok, err := repo.Update(in.ToEntity())
	if err != nil {
		return struct{}{}, ez.Internal(loc+": author update failed", err)
	}
	if !ok {
		return struct{}{}, ez.Internal(loc+": author update was not persisted", nil)
	}
	h.log.Info(loc+": author updated", zap.Int("id", id))
	return struct{}{}, nil
}

func (h *AuthorHandler) delete(c *gin.Context, _ *struct{}) (struct{}, error) {
	const loc = "Authors - Delete"
	id, err := ez.ParamID(c)
	if err != nil {
		return struct{}{}, err
	}
	h.log.Info(loc+": author deletion attempted", zap.Int("id", id))

	repo := h.repo.WithContext(c.Request.Context())
	exists, err := repo.IsExists(id)
	if err != nil {
		return struct{}{}, ez.Internal(loc+": existence check failed", err)
	}
	if !exists {
		h.log.Warn(loc+": author not found", zap.Int("id", id))
		return struct{}{}, ez.NotFound("author not found")
	}
	a, err := repo.FindByID(id)
	if err != nil {
		return struct{}{}, ez.Internal(loc+": author lookup failed", err)
	}
	if a == nil {
		return struct{}{}, ez.NotFound("author not found")
	}

	ok, err := repo.Delete(a)
	if err != nil {
		return struct{}{}, ez.Internal(loc+": author deletion failed", err)
	}
	if !ok {
		return struct{}{}, ez.Internal(loc+": author deletion was not persisted", nil)
	}
	h.log.Info(loc+": author deleted", zap.Int("id", id))
	return struct{}{}, nil
}
