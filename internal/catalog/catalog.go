// Package catalog holds the static option lists offered by the intake form
// and the landing page.
package catalog

import "github.com/fefrre/ferweb/internal/models"

type Option struct {
	Value       string
	Label       string
	Icon        string
	Description string
	Category    string
}

var ProjectTypes = []Option{
	{Value: "landing", Label: "Página de presentación (Landing Page)", Icon: "🖥️"},
	{Value: "ecommerce", Label: "Tienda en línea (E-commerce)", Icon: "🛒"},
	{Value: "webapp", Label: "Aplicación Web", Icon: "📱"},
	{Value: "cms", Label: "Sitio con CMS (Fácil de actualizar)", Icon: "✏️"},
	{Value: "redesign", Label: "Rediseño de sitio existente", Icon: "🎨"},
	{Value: "other", Label: "Otro tipo de proyecto", Icon: "❓"},
}

var BudgetOptions = []Option{
	{Value: "5-10k", Label: "Básico ($5k-$10k MXN)", Description: "Para proyectos simples o sitios informativos"},
	{Value: "10-20k", Label: "Estándar ($10k-$20k MXN)", Description: "Sitios con funcionalidades medias"},
	{Value: "20-50k", Label: "Avanzado ($20k-$50k MXN)", Description: "Sitios complejos o e-commerce"},
	{Value: "50k+", Label: "Empresarial ($50k+ MXN)", Description: "Soluciones a medida para empresas"},
	{Value: "unsure", Label: "No estoy seguro", Description: "Necesito asesoría para definir presupuesto"},
}

var FeatureOptions = []Option{
	{Value: "Diseño responsive", Icon: "📱", Category: "Básico"},
	{Value: "Blog/Noticias", Icon: "📰", Category: "Contenido"},
	{Value: "Formularios de contacto", Icon: "✉️", Category: "Básico"},
	{Value: "Galería multimedia", Icon: "🖼️", Category: "Contenido"},
	{Value: "Sistema de reservas/citas", Icon: "🗓️", Category: "Interacción"},
	{Value: "Carrito de compras", Icon: "🛍️", Category: "E-commerce"},
	{Value: "Sistema de membresías", Icon: "🔑", Category: "Usuarios"},
	{Value: "Área de clientes", Icon: "👤", Category: "Usuarios"},
	{Value: "Integración con redes sociales", Icon: "📢", Category: "Marketing"},
	{Value: "Chat en vivo", Icon: "💬", Category: "Interacción"},
	{Value: "Multidioma", Icon: "🌐", Category: "Internacional"},
	{Value: "SEO avanzado", Icon: "🔍", Category: "Marketing"},
	{Value: "Analítica integrada", Icon: "📊", Category: "Analítica"},
	{Value: "Sistema de pagos", Icon: "💳", Category: "E-commerce"},
	{Value: "Base de datos", Icon: "🗄️", Category: "Avanzado"},
	{Value: "Panel administrativo", Icon: "⚙️", Category: "Gestión"},
}

var IntegrationOptions = []Option{
	{Value: "Google Analytics", Icon: "📈"},
	{Value: "Facebook/Instagram", Icon: "👍"},
	{Value: "WhatsApp", Icon: "📱"},
	{Value: "Mailchimp", Icon: "✉️"},
	{Value: "Stripe/PayPal", Icon: "💳"},
	{Value: "Google Maps", Icon: "🗺️"},
	{Value: "CRM (Salesforce, Hubspot)", Icon: "📋"},
	{Value: "ERP", Icon: "📦"},
	{Value: "API de terceros", Icon: "🔌"},
	{Value: "Google Drive/Dropbox", Icon: "📁"},
	{Value: "Calendario (Google Calendar)", Icon: "🗓️"},
	{Value: "Zoom/Meet", Icon: "🎥"},
}

// HostingOptions starts with the empty "no preference" value.
var HostingOptions = []Option{
	{Value: "", Label: "No tengo preferencia", Description: "Recomiéndenme la mejor opción"},
	{Value: "shared", Label: "Hosting compartido", Description: "Económico para sitios pequeños"},
	{Value: "vps", Label: "VPS", Description: "Para sitios medianos con más control"},
	{Value: "cloud", Label: "Cloud hosting", Description: "Escalable y flexible"},
	{Value: "managed", Label: "Hosting gestionado", Description: "Nos encargamos de todo por ti"},
	{Value: "existing", Label: "Ya tengo hosting", Description: "Solo necesito el desarrollo"},
}

var StatusOptions = []Option{
	{Value: string(models.StatusPending), Label: "Pendiente"},
	{Value: string(models.StatusReviewed), Label: "Revisado"},
	{Value: string(models.StatusContacted), Label: "Contactado"},
	{Value: string(models.StatusCompleted), Label: "Completado"},
}

func find(opts []Option, value string) (Option, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

func label(opts []Option, value string) string {
	if o, ok := find(opts, value); ok {
		return o.Label
	}
	return value
}

// IsProjectType reports whether v is a selectable project type. The empty
// string is never valid.
func IsProjectType(v string) bool {
	_, ok := find(ProjectTypes, v)
	return ok && v != ""
}

func IsBudget(v string) bool {
	_, ok := find(BudgetOptions, v)
	return ok && v != ""
}

func IsHosting(v string) bool {
	_, ok := find(HostingOptions, v)
	return ok
}

func IsFeature(v string) bool {
	_, ok := find(FeatureOptions, v)
	return ok
}

func IsIntegration(v string) bool {
	_, ok := find(IntegrationOptions, v)
	return ok
}

// ProjectTypeLabel falls back to the raw value for rows written before a
// catalog change.
func ProjectTypeLabel(v string) string { return label(ProjectTypes, v) }

func BudgetLabel(v string) string { return label(BudgetOptions, v) }

func HostingLabel(v string) string { return label(HostingOptions, v) }

func StatusLabel(s models.Status) string { return label(StatusOptions, string(s)) }
