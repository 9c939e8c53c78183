package handlers

import (
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"github.com/rssbrudrapur/sewabase/core/sewadar"
)

// openedImage pairs the multipart file with its open handle so the
// handler can close it after the service consumed the stream.
type openedImage struct {
	sewadar.Image
	file multipart.File
}

// formImage extracts the optional "pic" upload. The picture is always
// optional, so a missing part, or a non-multipart request body, is not
// an error.
func formImage(ctx echo.Context) (*openedImage, error) {
	fh, err := ctx.FormFile("pic")
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &openedImage{
		Image: sewadar.Image{Content: f, Filename: fh.Filename},
		file:  f,
	}, nil
}

func closeImage(img *openedImage) {
	if img != nil {
		_ = img.file.Close()
	}
}

func imageArg(img *openedImage) *sewadar.Image {
	if img == nil {
		return nil
	}
	return &img.Image
}
