package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id set by the auth middleware and converts
// it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getUsername extracts the username set by the auth middleware.
func getUsername(c echo.Context) (string, error) {
	if s, ok := c.Get("username").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("invalid username in context")
}

// formValue reports a form field's value and whether the field was
// present at all. The distinction matters for partial updates, where an
// absent field means "leave unchanged" but an empty value is a real
// change. Works for both urlencoded and multipart bodies; query
// parameters do not count as form fields.
func formValue(c echo.Context, key string) (string, bool) {
	req := c.Request()
	if err := req.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
		return "", false
	}
	if vs, ok := req.PostForm[key]; ok && len(vs) > 0 {
		return vs[0], true
	}
	if req.MultipartForm != nil {
		if vs, ok := req.MultipartForm.Value[key]; ok && len(vs) > 0 {
			return vs[0], true
		}
	}
	return "", false
}
