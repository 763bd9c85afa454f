package diagram

import "slices"

// Canonical node types.
const (
	TypeServer       = "server"
	TypeDatabase     = "database"
	TypeCloud        = "cloud"
	TypeMobile       = "mobile"
	TypeWeb          = "web"
	TypeSecurity     = "security"
	TypeAPI          = "api"
	TypeUsers        = "users"
	TypeChat         = "chat"
	TypeEcommerce    = "ecommerce"
	TypePayment      = "payment"
	TypeEmail        = "email"
	TypeNotification = "notification"
	TypeSearch       = "search"
	TypeAnalytics    = "analytics"
	TypeAuth         = "auth"
	TypeNetwork      = "network"
	TypeStorage      = "storage"
	TypeCompute      = "compute"
	TypeFrontend     = "frontend"
)

// DefaultType is assigned when a type phrase cannot be classified.
const DefaultType = TypeServer

// NodeTypes lists the canonical vocabulary in display order.
var NodeTypes = []string{
	TypeServer, TypeDatabase, TypeCloud, TypeMobile, TypeWeb,
	TypeSecurity, TypeAPI, TypeUsers, TypeChat, TypeEcommerce,
	TypePayment, TypeEmail, TypeNotification, TypeSearch, TypeAnalytics,
	TypeAuth, TypeNetwork, TypeStorage, TypeCompute, TypeFrontend,
}

// IsNodeType reports whether t is part of the canonical vocabulary.
func IsNodeType(t string) bool {
	return slices.Contains(NodeTypes, t)
}

// DefaultColor is the fill used for unknown types.
const DefaultColor = "#6b7280"

var typeColors = map[string]string{
	TypeServer:       "#3b82f6",
	TypeDatabase:     "#a855f7",
	TypeAPI:          "#22c55e",
	TypeFrontend:     "#f97316",
	TypeMobile:       "#ec4899",
	TypeCloud:        "#0ea5e9",
	TypeSecurity:     "#ef4444",
	TypeNetwork:      "#14b8a6",
	TypeStorage:      "#eab308",
	TypePayment:      "#10b981",
	TypeNotification: "#6366f1",
	TypeSearch:       "#8b5cf6",
	TypeAnalytics:    "#f43f5e",
	TypeAuth:         "#dc2626",
	TypeUsers:        "#2563eb",
	TypeChat:         "#16a34a",
	TypeEcommerce:    "#9333ea",
	TypeEmail:        "#ea580c",
	TypeCompute:      "#4b5563",
	TypeWeb:          "#06b6d4",
}

// ColorFor returns the default fill colour for a node type.
func ColorFor(t string) string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return DefaultColor
}
