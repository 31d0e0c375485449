package catalog

// Package is a pricing card on the landing page. Custom packages open the
// intake form instead of listing features.
type Package struct {
	ID        string
	Title     string
	Price     string
	Features  []string
	Tech      []string
	Icon      string
	Highlight bool
	Custom    bool
}

var Packages = []Package{
	{
		ID:    "basico",
		Title: "Starter Pack",
		Price: "$2,500 - $3,000 MXN",
		Features: []string{
			"Landing page responsive",
			"Formulario de contacto funcional",
			"Hosting básico y dominio incluido",
			"SEO básico optimizado",
			"Soporte inicial",
		},
		Tech: []string{"Next.js", "Tailwind CSS", "Vercel"},
		Icon: "💻",
	},
	{
		ID:    "intermedio",
		Title: "Business Pack",
		Price: "$4,000 - $5,000 MXN",
		Features: []string{
			"Landing + Blog o Sección dinámica",
			"Panel de administración básico con Supabase",
			"Integración con redes sociales",
			"Analítica básica con Google Analytics",
			"Soporte extendido",
		},
		Tech:      []string{"Next.js", "Tailwind CSS", "Supabase", "TypeScript"},
		Icon:      "🚀",
		Highlight: true,
	},
	{
		ID:    "completo",
		Title: "Enterprise Pack",
		Price: "$6,000 - $8,000 MXN",
		Features: []string{
			"Web app completa con autenticación",
			"Base de datos y backend con Supabase",
			"Panel administrativo avanzado",
			"Integración de pagos con Stripe",
			"Soporte 24/7 y mantenimiento",
		},
		Tech: []string{"Next.js", "Tailwind CSS", "Supabase", "TypeScript", "Stripe"},
		Icon: "🔥",
	},
	{
		ID:     "personalizado",
		Title:  "Solución Personalizada",
		Icon:   "✨",
		Custom: true,
	},
}

var TechLinks = map[string]string{
	"Next.js":      "https://nextjs.org",
	"Tailwind CSS": "https://tailwindcss.com",
	"Vercel":       "https://vercel.com",
	"Supabase":     "https://supabase.com",
	"TypeScript":   "https://www.typescriptlang.org",
	"Stripe":       "https://stripe.com",
}
