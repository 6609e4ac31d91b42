// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/shici/internal/platform/locale"
	requestutil "github.com/taibuivan/shici/internal/platform/request"
	"github.com/taibuivan/shici/internal/platform/respond"
	"github.com/taibuivan/shici/internal/platform/validate"
	"github.com/taibuivan/shici/pkg/pagination"
	"github.com/taibuivan/shici/pkg/query"
)

// Query parameter names of the list endpoint.
const (
	ParamSelect = "select"
	ParamType   = "type"
	ParamLang   = "lang"
)

// Handler exposes the tag [Service] over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new tag [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /api/v1/tags.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listTags)
	router.Get("/count", handler.countTags)
	router.Get("/{id}", handler.getTag)
	router.Delete("/{id}", handler.deleteTag)
	router.Post("/", handler.createTag)
	return router
}

// listTags handles GET /api/v1/tags.
func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	listQuery, err := parseListQuery(request.URL.Query())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	views, meta, err := handler.service.List(request.Context(), listQuery)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, views, meta)
}

// countTags handles GET /api/v1/tags/count.
func (handler *Handler) countTags(writer http.ResponseWriter, request *http.Request) {
	counts, err := handler.service.Count(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, counts)
}

// getTag handles GET /api/v1/tags/{id}. A missing tag is {"data": null}.
func (handler *Handler) getTag(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.IntParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.FindByID(request.Context(), tagID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

// deleteTag handles DELETE /api/v1/tags/{id}.
func (handler *Handler) deleteTag(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.IntParam(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.DeleteByID(request.Context(), tagID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

// createTag handles POST /api/v1/tags.
func (handler *Handler) createTag(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, created, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, tag)
		return
	}
	respond.OK(writer, tag)
}

// parseListQuery validates the list query string.
//
// A literally empty "type" parameter selects tags without a type; omitting
// it disables the filter. Any other value, whitespace included, must match
// exactly.
func parseListQuery(values url.Values) (ListQuery, error) {
	v := &validate.Validator{}
	listQuery := ListQuery{Select: DefaultSelection(), Lang: locale.Simplified}

	if fields := query.StringSlice(values[ParamSelect]...); len(fields) > 0 {
		listQuery.Select = Selection{}
		for _, field := range fields {
			if v.OneOf(ParamSelect, field, SelectableFields...); v.HasErrors() {
				break
			}
			listQuery.Select, _ = listQuery.Select.With(field)
		}
	}

	if values.Has(ParamType) {
		if raw := values.Get(ParamType); raw == "" {
			listQuery.Type = NoType()
		} else {
			listQuery.Type = TypeEquals(norm.NFC.String(raw))
		}
	}

	page, err := pagination.FromQuery(values)
	var paramErr *pagination.ParamError
	if errors.As(err, &paramErr) {
		v.Custom(paramErr.Param, true, paramErr.Reason)
	}
	listQuery.Page = page

	if values.Has(ParamLang) {
		lang, err := locale.Parse(values.Get(ParamLang))
		v.Custom(ParamLang, err != nil, "Must be one of: "+strings.Join(locale.Names(), ", "))
		listQuery.Lang = lang
	}

	if err := v.Err(); err != nil {
		return ListQuery{}, err
	}
	return listQuery, nil
}
