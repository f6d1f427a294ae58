package i18n

import (
	"embed"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var builtinLocales embed.FS

var (
	translatorOnce sync.Once
	translator     *I18n
	defaultLang    = cnst.LangDefault
	supportedLangs = []string{cnst.LangFR, cnst.LangEN}
)

// I18n manages internationalization and translations
type I18n struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
}

// NewI18n creates a new I18n instance preloaded with the built-in catalogues
func NewI18n(defaultLang language.Tag) (*I18n, error) {
	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := builtinLocales.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		p := path.Join("locales", e.Name())
		data, err := builtinLocales.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", p, err)
		}
	}

	return &I18n{
		bundle:      bundle,
		defaultLang: defaultLang,
	}, nil
}

// LoadTranslations loads extra translation files from the specified directory,
// overriding built-in messages with the same ID
func (i *I18n) LoadTranslations(translationsDir string) error {
	files, err := os.ReadDir(translationsDir)
	if err != nil {
		return fmt.Errorf("failed to read translations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".toml") {
			continue
		}
		if _, err := i.bundle.LoadMessageFile(filepath.Join(translationsDir, file.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Translate returns a localized string for the given message ID and language
func (i *I18n) Translate(msgID string, lang string, templateData map[string]any) string {
	localizer := i18n.NewLocalizer(i.bundle, lang, i.defaultLang.String())

	lc := &i18n.LocalizeConfig{MessageID: msgID}
	if len(templateData) > 0 {
		lc.TemplateData = templateData
	}

	msg, err := localizer.Localize(lc)
	if err != nil {
		return msgID
	}
	return msg
}

// InitTranslator initializes the global translator, optionally loading an override directory
func InitTranslator(translationsPath string) error {
	t := GetTranslator()
	if translationsPath == "" {
		return nil
	}
	return t.LoadTranslations(translationsPath)
}

// GetTranslator returns the global translator
func GetTranslator() *I18n {
	translatorOnce.Do(func() {
		t, err := NewI18n(language.French)
		if err != nil {
			// built-in catalogues are embedded; a parse failure is a build defect
			panic(err)
		}
		translator = t
	})
	return translator
}

// Middleware stores the negotiated language in the gin context
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cnst.XLang, getLanguageFromRequest(c.Request))
		c.Next()
	}
}

// getLanguageFromRequest extracts language preference from HTTP headers
func getLanguageFromRequest(r *http.Request) string {
	if lang := r.Header.Get(cnst.XLang); lang != "" {
		return normalizeLang(lang)
	}

	if acceptLang := r.Header.Get("Accept-Language"); acceptLang != "" {
		first := strings.TrimSpace(strings.Split(strings.Split(acceptLang, ",")[0], ";")[0])
		return normalizeLang(first)
	}

	return defaultLang
}

// normalizeLang standardizes language codes
func normalizeLang(lang string) string {
	langCode := strings.ToLower(strings.Split(lang, "-")[0])
	for _, supported := range supportedLangs {
		if langCode == supported {
			return langCode
		}
	}
	return defaultLang
}

// langFromContext returns the negotiated language, or the default one
func langFromContext(c *gin.Context) string {
	if c == nil {
		return defaultLang
	}
	if v, ok := c.Get(cnst.XLang); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c.Request != nil {
		return getLanguageFromRequest(c.Request)
	}
	return defaultLang
}

// TranslateMessage translates a message ID using the context's language preference
func TranslateMessage(c *gin.Context, msgID string, data map[string]any) string {
	return GetTranslator().Translate(msgID, langFromContext(c), data)
}
