package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/career-fair-api/internal/config"
	"github.com/gdg-garage/career-fair-api/internal/logger"
	"github.com/gdg-garage/career-fair-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordUserAPI           = "https://discord.com/api/users/@me"
	DiscordUserGuildsAPI     = "https://discord.com/api/users/@me/guilds"

	OrganizerCookie = "auth_token"
	stateCookie     = "oauth_state"
)

const TokenDuration = 24 * time.Hour

// AuthHandler signs organizers in with Discord and issues the organizer
// cookie that guards the registration listing.
type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
	log         logger.Logger
}

// AuthInput carries the raw Cookie header of a huma operation.
type AuthInput struct {
	Cookie string `header:"Cookie"`
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "email", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		db:  db,
		cfg: cfg,
		log: log,
	}
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Path:     "/auth",
		SameSite: http.SameSiteLaxMode,
	})
	url := h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// HandleCallback finishes the Discord login. Organizer access exposes every
// registration, so it is refused outright when no organizers' guild is set.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if h.cfg.DiscordGuildID == "" {
		h.log.Warnf("organizer login refused: DISCORD_GUILD_ID is not configured")
		http.Error(w, "Access denied: organizer login is not configured.", http.StatusForbidden)
		return
	}

	state, err := r.Cookie(stateCookie)
	if err != nil || state.Value == "" || state.Value != r.URL.Query().Get("state") {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		h.log.Warnf("discord token exchange failed: %v", err)
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	client := h.oauthConfig.Client(r.Context(), token)

	member, err := isGuildMember(client, h.cfg.DiscordGuildID)
	if err != nil {
		h.log.Errorf("checking guild membership: %v", err)
		http.Error(w, "Failed to get user guilds", http.StatusInternalServerError)
		return
	}
	if !member {
		http.Error(w, "Access denied: You are not a member of the organizers' guild.", http.StatusForbidden)
		return
	}

	resp, err := client.Get(DiscordUserAPI)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var discordUser struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&discordUser); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	var organizer models.Organizer
	if err := h.db.FirstOrInit(&organizer, models.Organizer{DiscordID: discordUser.ID}).Error; err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	organizer.Username = discordUser.Username
	organizer.Email = discordUser.Email
	organizer.Avatar = discordUser.Avatar

	if err := h.db.Save(&organizer).Error; err != nil {
		http.Error(w, "Failed to save organizer", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(organizer.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     OrganizerCookie,
		Value:    jwtToken,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	h.log.Infof("organizer %s signed in", organizer.Username)
	http.Redirect(w, r, h.cfg.FrontendURL, http.StatusTemporaryRedirect)
}

func isGuildMember(client *http.Client, guildID string) (bool, error) {
	resp, err := client.Get(DiscordUserGuildsAPI)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var guilds []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&guilds); err != nil {
		return false, fmt.Errorf("decoding guilds: %w", err)
	}
	for _, g := range guilds {
		if g.ID == guildID {
			return true, nil
		}
	}
	return false, nil
}

func (h *AuthHandler) GenerateToken(organizerID uint) (string, error) {
	claims := jwt.MapClaims{
		"organizer_id": organizerID,
		"exp":          time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// ParseToken validates an organizer token and returns its claims.
func (h *AuthHandler) ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

func organizerID(claims jwt.MapClaims) (uint, bool) {
	id, ok := claims["organizer_id"].(float64)
	if !ok || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// Authorize checks the organizer cookie carried in a raw Cookie header.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) (uint, error) {
	if id, ok := ctx.Value(OrganizerIDKey).(uint); ok && id != 0 {
		return id, nil
	}
	value := CookieValue(cookieHeader, OrganizerCookie)
	if value == "" {
		return 0, huma.Error401Unauthorized("Unauthorized: No token found")
	}
	claims, err := h.ParseToken(value)
	if err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token")
	}
	id, ok := organizerID(claims)
	if !ok {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token claims")
	}
	return id, nil
}

// CookieValue extracts one cookie from a raw Cookie header.
func CookieValue(header, name string) string {
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return ""
	}
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

type MeResponse struct {
	Body struct {
		ID        uint   `json:"id"`
		DiscordID string `json:"discord_id"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Avatar    string `json:"avatar"`
	}
}

// HandleMe returns the signed-in organizer.
func (h *AuthHandler) HandleMe(ctx context.Context, input *AuthInput) (*MeResponse, error) {
	id, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var organizer models.Organizer
	if err := h.db.WithContext(ctx).First(&organizer, id).Error; err != nil {
		return nil, huma.Error404NotFound("Organizer not found")
	}

	resp := &MeResponse{}
	resp.Body.ID = organizer.ID
	resp.Body.DiscordID = organizer.DiscordID
	resp.Body.Username = organizer.Username
	resp.Body.Email = organizer.Email
	resp.Body.Avatar = organizer.Avatar
	return resp, nil
}
