package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"google.golang.org/api/googleapi"

	"github.com/desertthunder/autoalbum/internal/models"
)

const userAgent = "autoalbum"

// albumResource is the Album resource as served by the Photos Library API.
//
// mediaItemsCount is an int64 encoded as a JSON string; older discovery documents
// call it totalMediaItems, which the generated client decodes instead.
type albumResource struct {
	ID              string      `json:"id"`
	Title           string      `json:"title,omitempty"`
	ProductURL      string      `json:"productUrl,omitempty"`
	IsWriteable     bool        `json:"isWriteable,omitempty"`
	MediaItemsCount json.Number `json:"mediaItemsCount,omitempty"`
}

type listAlbumsResponse struct {
	Albums        []*albumResource `json:"albums"`
	SharedAlbums  []*albumResource `json:"sharedAlbums"`
	NextPageToken string           `json:"nextPageToken"`
}

type batchMediaItemsRequest struct {
	MediaItemIDs []string `json:"mediaItemIds"`
}

// do sends one request relative to the service base path and decodes the JSON reply into out.
//
// Non-2xx replies come back as *googleapi.Error.
func (s *PhotosService) do(ctx context.Context, method, path string, expand map[string]string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	urls := googleapi.ResolveRelative(s.svc.BasePath, path)
	if len(query) > 0 {
		urls += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, urls, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if len(expand) > 0 {
		googleapi.Expand(req.URL, expand)
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer googleapi.CloseBody(resp)

	if err := googleapi.CheckResponse(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (s *PhotosService) listAlbums(ctx context.Context, path, pageToken string) (*listAlbumsResponse, error) {
	query := url.Values{}
	query.Set("pageSize", strconv.FormatInt(s.pageSizeFor(maxAlbumPageSize), 10))
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	var resp listAlbumsResponse
	if err := s.do(ctx, http.MethodGet, path, nil, query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *PhotosService) batchMediaItems(ctx context.Context, albumID, method string, chunk []string) error {
	path := "v1/albums/{+albumId}:" + method
	expand := map[string]string{"albumId": albumID}
	return s.do(ctx, http.MethodPost, path, expand, nil, batchMediaItemsRequest{MediaItemIDs: chunk}, nil)
}

func toAlbum(a *albumResource, ownership models.Ownership) models.Album {
	album := models.Album{
		ID:         a.ID,
		Title:      a.Title,
		Shared:     ownership.IsShared(),
		Writeable:  a.IsWriteable,
		ProductURL: a.ProductURL,
	}
	if a.MediaItemsCount != "" {
		if n, err := a.MediaItemsCount.Int64(); err == nil {
			album.MediaItemsCount = n
		}
	}
	return album
}
