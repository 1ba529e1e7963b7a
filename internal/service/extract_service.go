package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/ledongthuc/pdf"
	"github.com/maheshrc27/repurposer/internal/models"
)

// Source is a classified input ready for storage and generation.
type Source struct {
	ContentType string
	FileName    string
	MIMEType    string
	// Data is the object uploaded to storage.
	Data []byte
	// Text is stored as the original's content_text.
	Text string
	// Payload is what the model receives: a data URL or URL for images, text otherwise.
	Payload   string
	SourceURL string
}

var (
	ErrEmptyInput        = errors.New("no file, url or text provided")
	ErrUnsupportedInput  = errors.New("unsupported input")
	ErrInputTypeMismatch = errors.New("input_type does not match the provided input")
	ErrBlockedAddress    = errors.New("address is not publicly routable")
)

const (
	maxFetchBytes   = 10 * 1024 * 1024
	maxPayloadRunes = 20000
	mimePDF         = "application/pdf"
	mimeDOCX        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type ExtractService interface {
	FromFile(name string, data []byte, declaredMIME, sourceURL string) (*Source, error)
	FromURL(ctx context.Context, rawURL string) (*Source, error)
	FromText(text, sourceURL string) (*Source, error)
}

type extractService struct {
	httpClient  *http.Client
	transcripts TranscriptFetcher
}

// NewExtractService builds the extractor. A nil client gets NewSafeHTTPClient;
// a nil transcripts fetcher turns YouTube links into plain video references.
func NewExtractService(httpClient *http.Client, transcripts TranscriptFetcher) ExtractService {
	if httpClient == nil {
		httpClient = NewSafeHTTPClient(15 * time.Second)
	}
	return &extractService{httpClient: httpClient, transcripts: transcripts}
}

// NewSafeHTTPClient returns a client that only connects to public addresses.
// The check runs at dial time on the resolved IP, so redirects and DNS
// answers pointing inside the network are refused as well.
func NewSafeHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = publicDialContext(dialer)
	return &http.Client{
		Timeout:       timeout,
		Transport:     transport,
		CheckRedirect: checkRedirect,
	}
}

func publicDialContext(dialer *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}
		addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, err
		}
		if len(addrs) == 0 {
			return nil, fmt.Errorf("no addresses for %s", host)
		}
		for _, a := range addrs {
			if !publicIP(a.IP) {
				return nil, fmt.Errorf("%w: %s", ErrBlockedAddress, a.IP)
			}
		}
		return dialer.DialContext(ctx, network, net.JoinHostPort(addrs[0].IP.String(), port))
	}
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: redirect to %s", ErrUnsupportedInput, req.URL.Scheme)
	}
	if ip := net.ParseIP(req.URL.Hostname()); ip != nil && !publicIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ip)
	}
	return nil
}

var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func publicIP(ip net.IP) bool {
	switch {
	case ip.IsLoopback(), ip.IsPrivate(), ip.IsUnspecified(),
		ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(), ip.IsMulticast():
		return false
	case sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

// textual content types all carry a plain text payload.
func textual(contentType string) bool {
	switch contentType {
	case models.ContentTypeText, models.ContentTypeArticle, models.ContentTypeDocument:
		return true
	}
	return false
}

// ApplyInputType relabels src with the caller's declared type. Only textual
// types may be swapped for one another since the payload was built for the
// detected type.
func ApplyInputType(src *Source, declared string) error {
	if declared == "" || declared == src.ContentType {
		return nil
	}
	if textual(declared) && textual(src.ContentType) {
		src.ContentType = declared
		return nil
	}
	return fmt.Errorf("%w: declared %s, detected %s", ErrInputTypeMismatch, declared, src.ContentType)
}

// ClassifyMIME maps a MIME type to a content type.
func ClassifyMIME(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.ContentTypeImage
	case strings.HasPrefix(mime, "video/"):
		return models.ContentTypeVideo
	case strings.HasPrefix(mime, "audio/"):
		return models.ContentTypeAudio
	case mime == mimePDF, mime == mimeDOCX:
		return models.ContentTypeDocument
	default:
		return models.ContentTypeText
	}
}

func sniffMIME(data []byte, declared string) string {
	kind, err := filetype.Match(data)
	if err == nil && kind != types.Unknown {
		return kind.MIME.Value
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if utf8.Valid(data) {
		return "text/plain"
	}
	return "application/octet-stream"
}

func (s *extractService) FromFile(name string, data []byte, declaredMIME, sourceURL string) (*Source, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	mime := sniffMIME(data, declaredMIME)
	src := &Source{
		ContentType: ClassifyMIME(mime),
		FileName:    filepath.Base(name),
		MIMEType:    mime,
		Data:        data,
		SourceURL:   sourceURL,
	}

	switch src.ContentType {
	case models.ContentTypeImage:
		src.Text = "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
		src.Payload = src.Text
	case models.ContentTypeVideo, models.ContentTypeAudio:
		// the model only sees a reference to the media
		src.Text = src.FileName
		src.Payload = mediaReference(src.ContentType, src.FileName, sourceURL)
	case models.ContentTypeDocument:
		text, err := extractDocument(mime, data)
		if err != nil {
			slog.Info(err.Error())
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
		}
		src.Text = text
		src.Payload = truncateRunes(text, maxPayloadRunes)
	default:
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, mime)
		}
		src.Text = string(data)
		src.Payload = truncateRunes(src.Text, maxPayloadRunes)
	}

	return src, nil
}

// FromURL fetches a remote source. Images are passed to the model by URL,
// YouTube links by transcript, everything else is treated as an article body.
func (s *extractService) FromURL(ctx context.Context, rawURL string) (*Source, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: invalid url", ErrUnsupportedInput)
	}

	if videoID, ok := ExtractVideoID(rawURL); ok {
		return s.fromYouTube(ctx, videoID, rawURL), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		if errors.Is(err, ErrBlockedAddress) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedInput, err)
		}
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch url: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read url body: %w", err)
	}

	header := resp.Header.Get("Content-Type")
	if i := strings.Index(header, ";"); i >= 0 {
		header = header[:i]
	}
	mime := sniffMIME(body, strings.TrimSpace(header))
	name := filepath.Base(u.Path)
	if name == "." || name == "/" {
		name = u.Hostname()
	}

	contentType := ClassifyMIME(mime)
	switch contentType {
	case models.ContentTypeImage:
		return &Source{
			ContentType: contentType,
			FileName:    name,
			MIMEType:    mime,
			Data:        body,
			Text:        rawURL,
			Payload:     rawURL,
			SourceURL:   rawURL,
		}, nil
	case models.ContentTypeVideo, models.ContentTypeAudio:
		return &Source{
			ContentType: contentType,
			FileName:    name,
			MIMEType:    mime,
			Data:        body,
			Text:        rawURL,
			Payload:     mediaReference(contentType, name, rawURL),
			SourceURL:   rawURL,
		}, nil
	case models.ContentTypeDocument:
		src, err := s.FromFile(name, body, mime, rawURL)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	text := string(body)
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, mime)
	}
	if strings.Contains(mime, "html") {
		text = normalizeExtractedText(stripMarkup(text))
	}
	return &Source{
		ContentType: models.ContentTypeArticle,
		FileName:    name,
		MIMEType:    mime,
		Data:        body,
		Text:        text,
		Payload:     truncateRunes(text, maxPayloadRunes),
		SourceURL:   rawURL,
	}, nil
}

// FromText wraps pasted text. With a source URL and no body it is an article
// reference.
func (s *extractService) FromText(text, sourceURL string) (*Source, error) {
	text = strings.TrimSpace(text)
	if text == "" && sourceURL == "" {
		return nil, ErrEmptyInput
	}

	contentType := models.ContentTypeText
	if text == "" {
		contentType = models.ContentTypeArticle
		text = sourceURL
	}

	return &Source{
		ContentType: contentType,
		FileName:    contentType + ".txt",
		MIMEType:    "text/plain",
		Data:        []byte(text),
		Text:        text,
		Payload:     truncateRunes(text, maxPayloadRunes),
		SourceURL:   sourceURL,
	}, nil
}

// fromYouTube uses the caption track as the source text. Without one the
// model only gets a reference to the video.
func (s *extractService) fromYouTube(ctx context.Context, videoID, rawURL string) *Source {
	ref := mediaReference(models.ContentTypeVideo, videoID, rawURL)
	src := &Source{
		ContentType: models.ContentTypeVideo,
		FileName:    videoID,
		MIMEType:    "text/plain",
		Data:        []byte(rawURL),
		Text:        rawURL,
		Payload:     ref,
		SourceURL:   rawURL,
	}
	if s.transcripts == nil {
		return src
	}

	transcript, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		slog.Info("transcript unavailable", "video_id", videoID, "error", err)
		return src
	}
	src.Data = []byte(transcript)
	src.Text = transcript
	src.Payload = truncateRunes(ref+"\n\nTranscript:\n"+transcript, maxPayloadRunes)
	return src
}

func mediaReference(contentType, name, sourceURL string) string {
	ref := fmt.Sprintf("A %s file named %q.", contentType, name)
	if sourceURL != "" {
		ref += " Source: " + sourceURL
	}
	return ref
}

func extractDocument(mime string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch mime {
	case mimePDF:
		text, err = extractPDF(data)
	case mimeDOCX:
		text, err = extractDOCX(data)
	default:
		return "", fmt.Errorf("unsupported document type %s", mime)
	}
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errors.New("no extractable text found in document")
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	return normalizeExtractedText(b.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()

		documentXML, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}

		s := string(documentXML)
		s = strings.ReplaceAll(s, "</w:p>", "\n")
		s = strings.ReplaceAll(s, "<w:br/>", "\n")
		s = strings.ReplaceAll(s, "<w:tab/>", "\t")
		return normalizeExtractedText(stripMarkup(s)), nil
	}

	return "", errors.New("docx document.xml not found")
}

var (
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	scriptPattern = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	entityReplace = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&#39;", "'", "&nbsp;", " ")
)

func stripMarkup(s string) string {
	s = scriptPattern.ReplaceAllString(s, "")
	s = tagPattern.ReplaceAllString(s, "\n")
	return entityReplace.Replace(s)
}

func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var buf bytes.Buffer
	emptyCount := 0
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
