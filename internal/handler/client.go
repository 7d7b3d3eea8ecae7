package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/clients-service/internal/model"
	"github.com/maxviazov/clients-service/internal/service"
	"github.com/maxviazov/clients-service/pkg/response"
)

// ClientsPath is the base path of the client resource.
const ClientsPath = "/clients"

type ClientHandler struct {
	svc service.ClientService
}

func NewClientHandler(svc service.ClientService) *ClientHandler { return &ClientHandler{svc: svc} }

func (h *ClientHandler) Register(r gin.IRouter) {
	g := r.Group(ClientsPath)
	{
		g.POST("", h.create)
		g.GET("", h.list)
		// static segment wins over :id in gin's tree
		g.GET("/paginated", h.listPaginated)
		g.GET("/:id", h.getByID)
		g.PATCH("/:id", h.update)
		g.DELETE("/:id", h.remove)
	}
}

// bindBody decodes JSON and turns decoder failures into field errors.
func bindBody(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return service.InvalidField(typeErr.Field, "must be a "+jsonKind(typeErr.Type))
	case errors.Is(err, io.EOF):
		return service.InvalidField("body", "must not be empty")
	default:
		return service.InvalidField("body", "malformed JSON")
	}
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "number"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, service.InvalidField("id", "must be an integer")
	}
	return id, nil
}

// create godoc
//
//	@Summary	Create a new client
//	@Tags		clients
//	@Accept		json
//	@Produce	json
//	@Param		client	body		model.CreateClientInput	true	"Client payload"
//	@Success	201		{object}	model.Client
//	@Failure	400		{object}	response.ErrorPayload
//	@Router		/clients [post]
func (h *ClientHandler) create(c *gin.Context) {
	var req model.CreateClientInput
	if err := bindBody(c, &req); err != nil {
		response.WriteError(c, err)
		return
	}
	client, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, client)
}

// list godoc
//
//	@Summary	Retrieve all clients
//	@Tags		clients
//	@Produce	json
//	@Success	200	{array}	model.Client
//	@Router		/clients [get]
func (h *ClientHandler) list(c *gin.Context) {
	clients, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, clients)
}

// listPaginated godoc
//
//	@Summary	Retrieve clients paginated, filtered by name and sorted
//	@Tags		clients
//	@Produce	json
//	@Param		page		query		int		false	"1-based page"			default(1)
//	@Param		limit		query		int		false	"Page size"				default(10)
//	@Param		sort		query		string	false	"Sort field"			default(createdAt)
//	@Param		order		query		string	false	"ASC or DESC"			default(DESC)
//	@Param		filterName	query		string	false	"Case-insensitive name substring"
//	@Success	200			{object}	service.PageResult
//	@Failure	400			{object}	response.ErrorPayload
//	@Router		/clients/paginated [get]
func (h *ClientHandler) listPaginated(c *gin.Context) {
	// unparsable page/limit fall back to the defaults
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	res, err := h.svc.FindAllPaginated(c.Request.Context(), service.ListQuery{
		Page:       page,
		Limit:      limit,
		Sort:       c.Query("sort"),
		Order:      c.Query("order"),
		NameFilter: c.Query("filterName"),
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

// getByID godoc
//
//	@Summary	Retrieve a client by ID
//	@Tags		clients
//	@Produce	json
//	@Param		id	path		int	true	"Client ID"
//	@Success	200	{object}	model.Client
//	@Failure	400	{object}	response.ErrorPayload
//	@Failure	404	{object}	response.ErrorPayload
//	@Router		/clients/{id} [get]
func (h *ClientHandler) getByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	client, err := h.svc.FindOne(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, client)
}

// update godoc
//
//	@Summary	Update a client by ID
//	@Tags		clients
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"Client ID"
//	@Param		client	body		model.UpdateClientInput	true	"Fields to change"
//	@Success	200		{object}	model.Client
//	@Failure	400		{object}	response.ErrorPayload
//	@Failure	404		{object}	response.ErrorPayload
//	@Router		/clients/{id} [patch]
func (h *ClientHandler) update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	var req model.UpdateClientInput
	if err := bindBody(c, &req); err != nil {
		response.WriteError(c, err)
		return
	}
	client, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, client)
}

// remove godoc
//
//	@Summary	Delete a client by ID
//	@Tags		clients
//	@Param		id	path	int	true	"Client ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorPayload
//	@Router		/clients/{id} [delete]
func (h *ClientHandler) remove(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if err := h.svc.Remove(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
