package components

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/felixbrock/catalogview/internal/domain"
	"github.com/felixbrock/catalogview/internal/query"
)

func renderString(t *testing.T, c templ.Component, ctx ...context.Context) string {
	t.Helper()
	renderCtx := context.Background()
	if len(ctx) > 0 {
		renderCtx = ctx[0]
	}
	var buf bytes.Buffer
	require.NoError(t, c.Render(renderCtx, &buf))
	return buf.String()
}

func parse(t *testing.T, c templ.Component) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(renderString(t, c)))
	require.NoError(t, err)
	return doc
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func keyedRows(doc *html.Node, tag string) []string {
	var keys []string
	for _, n := range findAll(doc, byTag(tag)) {
		if k, ok := attr(n, "data-row-key"); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

func TestCardAndGreeting(t *testing.T) {
	out := renderString(t, Card(), templ.WithChildren(context.Background(), Greeting("Alice")))
	assert.Equal(t,
		`<div class="card" style="border: 1px solid #ccc; padding: 16px"><h1>Welcome to my app! Alice</h1><div></div></div>`,
		out)
}

func TestGreetingEscapesName(t *testing.T) {
	out := renderString(t, Greeting("<script>"), templ.WithChildren(context.Background(), text("child")))
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "<div>child</div>")
}

func TestChildrenDoNotLeakIntoNestedComponents(t *testing.T) {
	out := renderString(t, Card(), templ.WithChildren(context.Background(), Greeting("Bob")))
	assert.Equal(t, 1, strings.Count(out, "Welcome to my app! Bob"))
}

func TestDemo(t *testing.T) {
	doc := parse(t, Demo())
	cards := findAll(doc, func(n *html.Node) bool {
		class, _ := attr(n, "class")
		return class == "card"
	})
	require.Len(t, cards, 2)
	assert.Contains(t, textOf(cards[0]), "Welcome to my app! Alice")
	assert.Contains(t, textOf(cards[1]), "This is inside a card 2!")
}

func TestTableRendersOneKeyedRowPerItem(t *testing.T) {
	products := []domain.Product{
		{Id: 7, Name: "Widget", Price: 9.5},
		{Id: 3, Name: "Gadget", Price: 12},
		{Id: 11, Name: "Doohickey", Price: 0.25},
	}

	doc := parse(t, Table(productColumns, products, domain.Product.Key))
	assert.Equal(t, []string{"7", "3", "11"}, keyedRows(doc, "tr"))

	headers := findAll(doc, byTag("th"))
	require.Len(t, headers, 3)
	assert.Equal(t, "Price", textOf(headers[2]))
}

func TestTableKeysFollowIdentityAcrossReorder(t *testing.T) {
	a := []domain.Product{{Id: 1, Name: "a"}, {Id: 2, Name: "b"}}
	b := []domain.Product{{Id: 2, Name: "b"}, {Id: 1, Name: "a"}}

	keysA := keyedRows(parse(t, Table(productColumns, a, domain.Product.Key)), "tr")
	keysB := keyedRows(parse(t, Table(productColumns, b, domain.Product.Key)), "tr")
	assert.Equal(t, []string{"1", "2"}, keysA)
	assert.Equal(t, []string{"2", "1"}, keysB)
}

func TestPriceColumn(t *testing.T) {
	doc := parse(t, Table(productColumns, []domain.Product{{Id: 7, Name: "Widget", Price: 9.5}}, domain.Product.Key))
	cells := findAll(doc, func(n *html.Node) bool {
		k, _ := attr(n, "data-column-key")
		return n.Data == "td" && k == "price"
	})
	require.Len(t, cells, 1)
	assert.Equal(t, "$9.5", textOf(cells[0]))
}

func TestEmptyTable(t *testing.T) {
	out := renderString(t, Table(productColumns, nil, domain.Product.Key))
	assert.Contains(t, out, "No data")
	assert.NotContains(t, out, "data-row-key")
}

func TestList(t *testing.T) {
	users := []domain.User{{Id: 1, Name: "Leanne Graham"}, {Id: 2, Name: "Ervin Howell"}}
	doc := parse(t, List(users, domain.User.Key, func(u domain.User) string { return u.Name }))
	assert.Equal(t, []string{"1", "2"}, keyedRows(doc, "li"))
	assert.Contains(t, textOf(doc), "Ervin Howell")
}

func TestButton(t *testing.T) {
	out := renderString(t, Button("Load More", "/views/x/next"))
	assert.Equal(t, `<button type="button" class="button" hx-post="/views/x/next">Load More</button>`, out)

	out = renderString(t, Button("<b>", `/views/"x"`))
	assert.Equal(t, `<button type="button" class="button" hx-post="/views/&#34;x&#34;">&lt;b&gt;</button>`, out)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, `<p class="error">Error: boom &amp; bust</p>`, renderString(t, ErrorMessage(errors.New("boom & bust"))))
	assert.Equal(t, `<p class="error">Error: unknown error</p>`, renderString(t, ErrorMessage(nil)))
}

func TestProductListStates(t *testing.T) {
	t.Run("loading", func(t *testing.T) {
		out := renderString(t, ProductList("abc", query.State[domain.Product]{Key: 1, IsLoading: true}, 1))
		assert.Contains(t, out, `class="spin"`)
		assert.Contains(t, out, `hx-get="/views/abc"`)
		assert.NotContains(t, out, "<table")
	})

	t.Run("error", func(t *testing.T) {
		doc := parse(t, ProductList("abc", query.State[domain.Product]{Key: 1, Err: errors.New("unexpected response status code error")}, 1))
		assert.Contains(t, textOf(doc), "Error: unexpected response status code error")
		assert.Empty(t, keyedRows(doc, "tr"))
		assert.Empty(t, findAll(doc, byTag("button")))
	})

	t.Run("data", func(t *testing.T) {
		state := query.State[domain.Product]{Key: 2, Data: []domain.Product{{Id: 7, Name: "Widget", Price: 9.5}}}
		doc := parse(t, ProductList("abc", state, 2))
		assert.Equal(t, []string{"7"}, keyedRows(doc, "tr"))

		buttons := findAll(doc, byTag("button"))
		require.Len(t, buttons, 1)
		post, _ := attr(buttons[0], "hx-post")
		assert.Equal(t, "/views/abc/next", post)

		views := findAll(doc, func(n *html.Node) bool { id, _ := attr(n, "id"); return id == "view-abc" })
		require.Len(t, views, 1)
		_, polling := attr(views[0], "hx-get")
		assert.False(t, polling)

		pagers := findAll(doc, func(n *html.Node) bool { class, _ := attr(n, "class"); return class == "pager" })
		require.Len(t, pagers, 1)
		page, _ := attr(pagers[0], "data-page")
		assert.Equal(t, "2", page)
	})
}

func TestUserListStates(t *testing.T) {
	out := renderString(t, UserList("u1", query.State[domain.User]{IsLoading: true}))
	assert.Contains(t, out, `class="spin"`)

	doc := parse(t, UserList("u1", query.State[domain.User]{Data: []domain.User{{Id: 5, Name: "Chelsey"}}}))
	assert.Equal(t, []string{"5"}, keyedRows(doc, "li"))

	buttons := findAll(doc, byTag("button"))
	require.Len(t, buttons, 1)
	post, _ := attr(buttons[0], "hx-post")
	assert.Equal(t, "/views/u1/refresh", post)

	unmounts := findAll(doc, func(n *html.Node) bool { _, ok := attr(n, "hx-delete"); return ok })
	require.Len(t, unmounts, 1)
	trigger, _ := attr(unmounts[0], "hx-trigger")
	assert.Equal(t, "pagehide from:window", trigger)
}

func TestAppAndErrorPage(t *testing.T) {
	out := renderString(t, Page("Products", text("body")))
	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Products</title>")
	assert.Contains(t, out, "<main>body</main>")

	out = renderString(t, ErrorPage(404, "Not found", "Sorry"))
	assert.Contains(t, out, `data-code="404"`)
}
