// Package bind decodes a request body into a request struct and validates
// it. JSON, urlencoded and multipart bodies land in the same struct: JSON
// by its json tags, forms by the `form` tag or, failing that, the json name.
//
//	var req createCategory
//	if err := bind.Body(r, &req); err != nil { ... }
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// ErrBodyTooLarge is returned when the body exceeds MAX_BODY_BYTES (JSON,
// urlencoded) or MAX_UPLOAD_BYTES (multipart).
var ErrBodyTooLarge = errors.New("bind: request body too large")

// Body decodes r into dest (a pointer to a struct) and validates it.
// Malformed input and rule failures both come back as validate.Errors.
func Body(r *http.Request, dest any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var err error
	switch mediaType {
	case "application/json":
		err = decodeJSON(r, dest)
	case "multipart/form-data":
		err = decodeMultipart(r, dest)
	default:
		err = decodeForm(r, dest)
	}
	if err != nil {
		return err
	}
	return validate.Check(dest)
}

func decodeJSON(r *http.Request, dest any) error {
	body := http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())
	err := json.NewDecoder(body).Decode(dest)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrBodyTooLarge
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validate.Field(typeErr.Field, fmt.Sprintf("The %s field has the wrong type.", typeErr.Field))
	}
	return validate.Field("body", "The request body is not valid JSON.")
}

func decodeMultipart(r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxUploadBytes())
	if err := r.ParseMultipartForm(config.MaxUploadBytes()); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return validate.Field("body", "The request body is not valid multipart form data.")
	}
	return fill(r.MultipartForm.Value, dest)
}

func decodeForm(r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return validate.Field("body", "The request body is not a valid form.")
	}
	return fill(r.PostForm, dest)
}

// fill copies the first value of each form key into the matching
// string-kinded field of dest.
func fill(values map[string][]string, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: destination must be a pointer to a struct, got %T", dest)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() || f.Type.Kind() != reflect.String {
			continue
		}
		name := f.Tag.Get("form")
		if name == "" {
			name = validate.JSONName(f)
		}
		if name == "-" {
			continue
		}
		if vs, ok := values[name]; ok && len(vs) > 0 {
			rv.Field(i).SetString(vs[0])
		}
	}
	return nil
}

// Files returns the files uploaded under field by a multipart request that
// Body has already parsed.
func Files(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[field]
}
