// Package docapi wraps the /api/documents endpoints.
package docapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jargoyle/jargoyle/pkg/apiclient"
	"github.com/jargoyle/jargoyle/pkg/dto"
)

type API struct {
	client *apiclient.Client
}

func New(client *apiclient.Client) *API {
	return &API{client: client}
}

func (a *API) List(ctx context.Context, page, size int) (*dto.DocumentPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return apiclient.Request[dto.DocumentPage](ctx, a.client, "/documents?"+q.Encode(), nil)
}

func (a *API) Get(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	return apiclient.Request[dto.DocumentResponse](ctx, a.client, documentPath(id), nil)
}

func (a *API) Update(ctx context.Context, id string, req dto.DocumentUpdateRequest) (*dto.DocumentResponse, error) {
	return apiclient.Request[dto.DocumentResponse](ctx, a.client, documentPath(id), &apiclient.Options{
		Method: http.MethodPatch,
		Body:   req,
	})
}

func (a *API) Delete(ctx context.Context, id string) error {
	_, err := apiclient.Request[struct{}](ctx, a.client, documentPath(id), &apiclient.Options{Method: http.MethodDelete})
	return err
}

func documentPath(id string) string {
	return fmt.Sprintf("/documents/%s", url.PathEscape(id))
}
