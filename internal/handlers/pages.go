package handlers

import (
	"net/http"

	"auth_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// pageData feeds the shared layout partials.
type pageData struct {
	Title             string
	Scripts           []string
	MinPasswordLength int
}

func (h *Handler) index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", pageData{
		Title:             "Register",
		Scripts:           []string{"register.js"},
		MinPasswordLength: service.PasswordMinLength,
	})
}

func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", pageData{
		Title:   "Log in",
		Scripts: []string{"login.js"},
	})
}

// dashboardPage is served to anyone; the script sends visitors without a token back to /login.
func (h *Handler) dashboardPage(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", pageData{
		Title:   "Dashboard",
		Scripts: []string{"dashboard.js"},
	})
}
