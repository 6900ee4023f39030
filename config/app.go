package config

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// AppConfig holds global application configuration
var AppConfig *App
var appMu sync.RWMutex

// App carries the fiscal identity, the shared security key and the
// VSDC endpoint/route wiring. Loaded once at startup; changed only
// through Reload (never re-read from env per request).
type App struct {
	AppName string
	Port    string
	Env     string
	Debug   bool

	// Shared secret every inbound document payload must carry.
	SecurityKey string

	// Fiscal identity stamped onto every outbound payload, overriding
	// whatever the caller supplied.
	TPIN          string
	BranchID      string
	RegistrarID   string
	RegistrarName string
	ModifierID    string
	ModifierName  string

	// BaseURL is the VSDC service root (liveness probe, select endpoints).
	BaseURL string

	// Endpoints maps an endpoint key (salesInvoice, purchaseInvoice, items,
	// stock, stockMaster, imports) to its save URL.
	Endpoints map[string]string

	// Routes maps an inbound route name (without leading slash) to the
	// document kind handled there.
	Routes map[string]string
}

// Endpoint keys.
const (
	EndpointSalesInvoice    = "salesInvoice"
	EndpointPurchaseInvoice = "purchaseInvoice"
	EndpointItems           = "items"
	EndpointStock           = "stock"
	EndpointStockMaster     = "stockMaster"
	EndpointImports         = "imports"
)

func defaultEndpoints(baseURL string) map[string]string {
	return map[string]string{
		EndpointSalesInvoice:    baseURL + "/trnsSales/saveSales",
		EndpointPurchaseInvoice: baseURL + "/trnsPurchase/savePurchase",
		EndpointItems:           baseURL + "/items/saveItem",
		EndpointStock:           baseURL + "/stock/saveStockItems",
		EndpointStockMaster:     baseURL + "/stockMaster/saveStockMaster",
		EndpointImports:         baseURL + "/imports/updateImportItems",
	}
}

func defaultRoutes() map[string]string {
	return map[string]string{
		"sales-invoice":    EndpointSalesInvoice,
		"purchase-invoice": EndpointPurchaseInvoice,
		"items":            EndpointItems,
		"stock":            EndpointStock,
		"imports":          EndpointImports,
	}
}

func loadApp() *App {
	baseURL := GetEnv("VSDC_BASE_URL", "http://localhost:8080/sandboxvsdc1.0.7.5")

	app := &App{
		AppName:       GetEnv("APP_NAME", "vsdc-bridge"),
		Port:          GetEnv("PORT", "3000"),
		Env:           os.Getenv("APP_ENV"),
		Debug:         os.Getenv("DEBUG") == "true",
		SecurityKey:   GetEnv("SECURITY_KEY", "defaultKey123"),
		TPIN:          GetEnv("TPIN", "2001179764"),
		BranchID:      GetEnv("BRANCH_ID", "Main Branch"),
		RegistrarID:   GetEnv("REGR_ID", "admin"),
		RegistrarName: GetEnv("REGR_NM", "Administrator"),
		ModifierID:    GetEnv("MODR_ID", "system"),
		ModifierName:  GetEnv("MODR_NM", "System"),
		BaseURL:       baseURL,
		Endpoints:     defaultEndpoints(baseURL),
		Routes:        defaultRoutes(),
	}

	// Optional JSON overrides for the endpoint and route tables.
	if raw := os.Getenv("VSDC_ENDPOINTS"); raw != "" {
		overrides := map[string]string{}
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			log.Printf("config: invalid VSDC_ENDPOINTS, using defaults: %v", err)
		} else {
			for k, v := range overrides {
				app.Endpoints[k] = v
			}
		}
	}
	if raw := os.Getenv("VSDC_ROUTES"); raw != "" {
		routes := map[string]string{}
		if err := json.Unmarshal([]byte(raw), &routes); err != nil {
			log.Printf("config: invalid VSDC_ROUTES, using defaults: %v", err)
		} else {
			app.Routes = routes
		}
	}
	return app
}

// LoadAppConfig initializes the global AppConfig variable.
func LoadAppConfig() {
	appMu.Lock()
	defer appMu.Unlock()
	if AppConfig == nil {
		AppConfig = loadApp()
	}
}

// ReloadAppConfig re-reads configuration from the environment. Components
// holding a *App keep their snapshot; callers of GetApp see the new one.
func ReloadAppConfig() {
	fresh := loadApp()
	appMu.Lock()
	AppConfig = fresh
	appMu.Unlock()
}

// GetApp returns the current application configuration.
func GetApp() *App {
	appMu.RLock()
	a := AppConfig
	appMu.RUnlock()
	if a != nil {
		return a
	}
	LoadAppConfig()
	appMu.RLock()
	a = AppConfig
	appMu.RUnlock()
	return a
}

// Endpoint returns the URL for an endpoint key, "" when not configured.
func (a *App) Endpoint(key string) string {
	return a.Endpoints[key]
}
