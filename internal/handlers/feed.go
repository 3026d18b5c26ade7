package handlers

import (
	"net/http"

	"fashigram/internal/models"
	"fashigram/internal/services"
	"fashigram/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session keys for remembered feed preferences.
const (
	prefSort     = "feed_sort"
	prefStyle    = "feed_style"
	prefSubstyle = "feed_substyle"
	prefCountry  = "feed_country"
)

type FeedHandler struct {
	feed   *services.FeedService
	styles *services.StyleService
}

func NewFeedHandler(feed *services.FeedService, styles *services.StyleService) *FeedHandler {
	return &FeedHandler{feed: feed, styles: styles}
}

// Feed 首页信息流：查询参数优先，缺省时沿用 session 中记住的选择
func (h *FeedHandler) Feed(c *gin.Context) {
	session := sessions.Default(c)

	order, ok := sortParam(c)
	if !ok {
		badRequest(c, "sort must be new or top")
		return
	}
	if order == "" {
		order, _ = services.ParseSortOrder(stringPref(session, prefSort))
	}
	if order == "" {
		order = services.SortNew
	}

	previousStyle := stringPref(session, prefStyle)
	style := queryOrPref(c, session, "style", prefStyle)
	if style != "" {
		resolved, _, err := h.styles.Resolve(c.Request.Context(), style)
		if err != nil {
			respondError(c, err)
			return
		}
		style = resolved
	}

	substyle := queryOrPref(c, session, "substyle", prefSubstyle)
	_, substyleGiven := c.GetQuery("substyle")
	if style != previousStyle && !substyleGiven {
		// A new style invalidates the remembered substyle.
		substyle = ""
	}

	filter := models.FeedFilter{
		Style:       style,
		Substyle:    utils.NormalizeStyle(substyle),
		CountryName: queryOrPref(c, session, "country", prefCountry),
	}

	posts, err := h.feed.Feed(c.Request.Context(), filter, order)
	if err != nil {
		respondError(c, err)
		return
	}

	session.Set(prefSort, string(order))
	session.Set(prefStyle, filter.Style)
	session.Set(prefSubstyle, filter.Substyle)
	session.Set(prefCountry, filter.CountryName)
	_ = session.Save()

	c.JSON(http.StatusOK, gin.H{
		"sort":   order,
		"filter": filter,
		"posts":  posts,
	})
}

func (h *FeedHandler) Countries(c *gin.Context) {
	countries, err := h.feed.Countries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if countries == nil {
		countries = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

func stringPref(session sessions.Session, key string) string {
	v, _ := session.Get(key).(string)
	return v
}

// queryOrPref returns the query value when the parameter is present (even empty), else the session value.
func queryOrPref(c *gin.Context, session sessions.Session, param, key string) string {
	if v, ok := c.GetQuery(param); ok {
		return v
	}
	return stringPref(session, key)
}
