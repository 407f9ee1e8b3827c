package http

import (
	"net/http"

	applog "sheetwallet/internal/log"
	"sheetwallet/internal/services"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.deps.Categories.Load(r.Context())
	if err != nil {
		s.writeError(w, r, err, applog.OpList, "failed to read categories")
		return
	}
	NewJSONResponse().Data(cats).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := ParseRequestBody(w, r)
	if err != nil {
		s.writeError(w, r, err, applog.OpCreate, "failed to create category")
		return
	}
	var name, color *string
	if err := body.Strings(map[string]**string{"name": &name, "color_hex": &color}); err != nil {
		s.writeError(w, r, err, applog.OpCreate, "failed to create category")
		return
	}

	c, err := s.deps.Categories.Create(r.Context(), deref(name), deref(color))
	if err != nil {
		s.writeError(w, r, err, applog.OpCreate, "failed to create category")
		return
	}
	s.events.LogMutation(r.Context(), applog.EntityCategory, applog.OpCreate, c.ID, "name", c.Name)
	NewJSONResponse().Status(http.StatusCreated).Message("category created").Data(c).Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	body, err := ParseRequestBody(w, r)
	if err != nil {
		s.writeError(w, r, err, applog.OpUpdate, "failed to update category")
		return
	}
	var patch services.CategoryPatch
	if err := body.Strings(map[string]**string{"name": &patch.Name, "color_hex": &patch.ColorHex}); err != nil {
		s.writeError(w, r, err, applog.OpUpdate, "failed to update category")
		return
	}

	c, err := s.deps.Categories.Update(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err, applog.OpUpdate, "failed to update category")
		return
	}
	s.events.LogMutation(r.Context(), applog.EntityCategory, applog.OpUpdate, id)
	NewJSONResponse().Message("category updated").Data(c).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, err := s.deps.Categories.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, applog.OpDelete, "failed to delete category")
		return
	}
	s.events.LogMutation(r.Context(), applog.EntityCategory, applog.OpDelete, id)
	NewJSONResponse().Message("category deleted").Data(c).Write(w)
}
