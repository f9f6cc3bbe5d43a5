package folio

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liamso/folio/content"
)

func (a *App) handleHome(c echo.Context) error {
	idx, err := a.Library.GetCategorizedArticles()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(idx))
}

func (a *App) handleBlog(c echo.Context) error {
	idx, err := a.Library.GetCategorizedArticles()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Blog(idx))
}

// articleMissing reports whether err means the article cannot be shown:
// it does not exist or its document is broken.
func articleMissing(c echo.Context, err error) bool {
	if content.IsNotFound(err) {
		return true
	}
	var ae *content.ArticleError
	if errors.As(err, &ae) {
		c.Logger().Warnf("article %s unavailable: %v", ae.Slug, ae.Err)
		return true
	}
	return false
}

func (a *App) handleArticle(c echo.Context) error {
	article, err := a.Library.GetArticle(c.Param("slug"))
	if err != nil {
		if articleMissing(c, err) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	return Render(c, a.Views.Article(article))
}

func (a *App) handleAPIIndex(c echo.Context) error {
	idx, err := a.Library.GetCategorizedArticles()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, idx)
}

func (a *App) handleAPIArticle(c echo.Context) error {
	article, err := a.Library.GetArticle(c.Param("slug"))
	if err != nil {
		if articleMissing(c, err) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func (a *App) handleSitemap(c echo.Context) error {
	idx, err := a.Library.GetCategorizedArticles()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, idx.All())
}

func (a *App) handleFeed(c echo.Context) error {
	idx, err := a.Library.GetCategorizedArticles()
	if err != nil {
		return err
	}
	return a.renderRSS(c, idx.All())
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/blog/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt from the configured site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		if isAPI(c) {
			_ = c.JSON(code, map[string]string{"error": http.StatusText(code)})
			return
		}
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
