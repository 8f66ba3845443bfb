package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HaseebAmer/bytecon/internal/clients"
	"github.com/HaseebAmer/bytecon/internal/feed"
	"github.com/HaseebAmer/bytecon/internal/models"
	"github.com/HaseebAmer/bytecon/internal/session"
)

// ProfileHandler serves the account-settings view.
type ProfileHandler struct {
	users    *clients.UserClient
	sessions *session.Store
	feeds    *feed.Registry
	logger   *zap.Logger
}

func NewProfileHandler(users *clients.UserClient, sessions *session.Store, feeds *feed.Registry, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		users:    users,
		sessions: sessions,
		feeds:    feeds,
		logger:   logger,
	}
}

func (h *ProfileHandler) ProfilePage(c *gin.Context) {
	profile, err := h.users.Profile(authContext(c, h.sessions))
	if err != nil {
		h.logger.Error("Profile fetch failed", zap.Error(err))
		c.HTML(http.StatusOK, "profile.html", gin.H{
			"Err":     "Could not load your profile. Please try again.",
			"AllTags": models.AllTags,
		})
		return
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"Profile": profile,
		"AllTags": models.AllTags,
		"Flash":   c.Query("flash"),
		"Err":     c.Query("err"),
	})
}

// Save pushes the edited profile to the backend. The backend exposes the
// profile as four independent mutations with no transaction across them,
// so each field is sent on its own and any partial failure is reported
// naming the fields that did not stick.
func (h *ProfileHandler) Save(c *gin.Context) {
	ctx := authContext(c, h.sessions)

	bio := c.PostForm("bio")
	firstName := strings.TrimSpace(c.PostForm("firstName"))
	lastName := strings.TrimSpace(c.PostForm("lastName"))
	interests := parseTags(c.PostFormArray("interests"))

	var failed []string

	if err := h.users.EditBio(ctx, bio); err != nil {
		h.logger.Error("Bio update failed", zap.Error(err))
		failed = append(failed, "bio")
	}
	if err := h.users.EditInterests(ctx, interests); err != nil {
		h.logger.Error("Interests update failed", zap.Error(err))
		failed = append(failed, "interests")
	}
	if firstName != "" && lastName != "" {
		if err := h.users.EditName(ctx, firstName, lastName); err != nil {
			h.logger.Error("Name update failed", zap.Error(err))
			failed = append(failed, "name")
		}
	}
	if image, err := readImageDataURI(c, "image"); err != nil {
		failed = append(failed, "picture")
	} else if image != "" {
		if err := h.users.EditProfilePic(ctx, image); err != nil {
			h.logger.Error("Picture update failed", zap.Error(err))
			failed = append(failed, "picture")
		}
	}

	if len(failed) > 0 {
		msg := "Some changes were not saved: " + strings.Join(failed, ", ")
		c.Redirect(http.StatusSeeOther, "/profile?err="+url.QueryEscape(msg))
		return
	}
	c.Redirect(http.StatusSeeOther, "/profile?flash="+url.QueryEscape("Profile saved."))
}

// DeleteAccount removes the account and ends the session. Both session
// entries are cleared together.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID := h.sessions.UserID(c)

	if err := h.users.DeleteAccount(authContext(c, h.sessions)); err != nil {
		h.logger.Error("Account deletion failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/profile?err="+url.QueryEscape("Could not delete your account. Please try again."))
		return
	}

	h.sessions.Clear(c)
	h.feeds.Drop(userID)
	c.Redirect(http.StatusSeeOther, "/home")
}
