package handlers

import (
	"mime"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/johnwmail/lpaste/internal/services"
)

// bindPasteForm reads the submission form. Fields posted in a legacy
// charset named by the Content-Type are transcoded to UTF-8.
func bindPasteForm(c *gin.Context) (services.CreatePasteRequest, error) {
	var req services.CreatePasteRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		return req, errors.Wrap(err, "parse form")
	}

	_, params, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil || params["charset"] == "" {
		return req, nil
	}

	charset := params["charset"]
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return req, errors.Wrapf(err, "unsupported charset %q", charset)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return req, nil
	}

	dec := enc.NewDecoder()
	for _, field := range []*string{&req.Content, &req.Language, &req.Poster, &req.Title} {
		s, err := dec.String(*field)
		if err != nil {
			return req, errors.Wrapf(err, "decode %s form", charset)
		}
		*field = s
	}
	return req, nil
}
