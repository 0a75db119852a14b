package personalize

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestCompose_SameInputSameBytes(t *testing.T) {
	compositor := NewCompositor(nil)
	branding := BrandingInput{Name: "Jane Agent", Content: "Call me today"}
	profile := DefaultProfile()
	profile.Photo.Enabled = false

	first, err := compositor.Compose(context.Background(), branding, profile, DocumentPDF)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	second, err := compositor.Compose(context.Background(), branding, profile, DocumentPDF)
	if err != nil {
		t.Fatalf("compose again: %v", err)
	}

	if !bytes.Equal(first.Bytes, second.Bytes) {
		t.Error("expected identical bytes for identical inputs")
	}
}

func TestCompose_DisabledFieldsAndEmptyValuesOmitted(t *testing.T) {
	compositor := NewCompositor(nil)
	profile := DefaultProfile()
	profile.Name.Enabled = false
	profile.Photo.Enabled = false

	// name 关闭、photoURL 为空、content 开启且有值：只应绘制 content。
	doc, err := compositor.Compose(context.Background(), BrandingInput{
		Name:    "Should Not Appear",
		Content: "Visible text",
	}, profile, DocumentPDF)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if len(doc.Elements) != 1 {
		t.Fatalf("expected 1 drawn element, got %d: %+v", len(doc.Elements), doc.Elements)
	}
	if doc.Elements[0].Field != FieldContent || doc.Elements[0].Kind != ElementText {
		t.Errorf("unexpected element: %+v", doc.Elements[0])
	}
}

func TestCompose_AllEmptyProducesBlankPage(t *testing.T) {
	compositor := NewCompositor(nil)

	doc, err := compositor.Compose(context.Background(), BrandingInput{}, DefaultProfile(), DocumentPDF)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if len(doc.Elements) != 0 {
		t.Fatalf("expected no drawn elements, got %+v", doc.Elements)
	}
	if len(doc.Bytes) == 0 {
		t.Error("expected a valid blank pdf document")
	}
}

func TestCompose_TextPlacementMatchesProfile(t *testing.T) {
	compositor := NewCompositor(nil)
	profile := DefaultProfile()
	profile.Photo.Enabled = false
	profile.Name.XPos = 123
	profile.Name.YPos = 456
	profile.Name.FontSize = 20

	doc, err := compositor.Compose(context.Background(), BrandingInput{
		Name:    "Jane Agent",
		Content: "Reach out anytime",
	}, profile, DocumentPDF)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if len(doc.Elements) != 2 {
		t.Fatalf("expected 2 drawn elements, got %d", len(doc.Elements))
	}

	name := doc.Elements[0]
	if name.Field != FieldName || name.XPos != 123 || name.YPos != 456 || name.FontSize != 20 || !name.Bold {
		t.Errorf("unexpected name element: %+v", name)
	}
	content := doc.Elements[1]
	if content.Field != FieldContent || content.Bold {
		t.Errorf("unexpected content element: %+v", content)
	}
}

func TestCompose_EmbedsPhotoFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(encodePNG(t))
	}))
	defer server.Close()

	compositor := NewCompositor(server.Client())
	profile := DefaultProfile()
	profile.Name.Enabled = false
	profile.Content.Enabled = false

	doc, err := compositor.Compose(context.Background(), BrandingInput{
		PhotoReference: server.URL + "/photo.png",
	}, profile, DocumentPDF)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if len(doc.Elements) != 1 {
		t.Fatalf("expected 1 drawn element, got %d", len(doc.Elements))
	}
	photo := doc.Elements[0]
	if photo.Kind != ElementImage || photo.Width != 100 || photo.Height != 100 {
		t.Errorf("unexpected photo element: %+v", photo)
	}
}

func TestCompose_PhotoFetchFailureAbortsComposition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	compositor := NewCompositor(server.Client())

	_, err := compositor.Compose(context.Background(), BrandingInput{
		Name:           "Jane Agent",
		PhotoReference: server.URL + "/missing.png",
	}, DefaultProfile(), DocumentPDF)

	var compErr *CompositionError
	if !errors.As(err, &compErr) {
		t.Fatalf("expected CompositionError, got %v", err)
	}
}

func TestCompose_UndecodablePhotoFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("definitely not an image"))
	}))
	defer server.Close()

	compositor := NewCompositor(server.Client())

	_, err := compositor.Compose(context.Background(), BrandingInput{
		PhotoReference: server.URL + "/junk",
	}, DefaultProfile(), DocumentPDF)

	var compErr *CompositionError
	if !errors.As(err, &compErr) {
		t.Fatalf("expected CompositionError, got %v", err)
	}
}

func TestCompose_NonPDFHasNoGenerator(t *testing.T) {
	compositor := NewCompositor(nil)

	for _, docType := range []DocumentType{DocumentImage, DocumentVideo} {
		_, err := compositor.Compose(context.Background(), BrandingInput{Name: "x"}, DefaultProfile(), docType)
		if !errors.Is(err, ErrNoGenerator) {
			t.Errorf("%s: expected ErrNoGenerator, got %v", docType, err)
		}
	}
}

func TestDetectRasterFormat(t *testing.T) {
	if format, err := detectRasterFormat(encodePNG(t)); err != nil || format != "PNG" {
		t.Errorf("png: got format=%q err=%v", format, err)
	}
	if format, err := detectRasterFormat(encodeJPEG(t)); err != nil || format != "JPG" {
		t.Errorf("jpeg: got format=%q err=%v", format, err)
	}
	if _, err := detectRasterFormat([]byte("neither")); err == nil {
		t.Error("expected error for undecodable bytes")
	}
}
