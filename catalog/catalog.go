// Package catalog holds the fixed reference data offered by the planner:
// event types, checklist templates and gift suggestions.
package catalog

// DefaultKey is the fallback template key for unknown event types
const DefaultKey = "Default"

// EventTypes offered on the create-event form. Stored event types are free
// strings; this list only feeds the form.
var EventTypes = []string{
	"Wedding",
	"Diwali",
	"Holi",
	"Birthday",
	"Rakhi",
	"Anniversary",
	"Housewarming",
	"Baby Shower",
	"Engagement",
	"Navratri",
	"Durga Puja",
	"Ganesh Chaturthi",
	"Custom",
}

var checklistTemplates = map[string][]string{
	"Wedding": {
		"Book venue",
		"Send invitations",
		"Arrange catering",
		"Book photographer",
		"Arrange music/DJ",
		"Buy wedding attire",
		"Book accommodation for guests",
		"Arrange transportation",
		"Create guest list",
		"Order wedding cake",
	},
	"Birthday": {
		"Send invitations",
		"Order cake",
		"Arrange decorations",
		"Plan games/activities",
		"Arrange return gifts",
		"Book venue (if needed)",
		"Order food/catering",
		"Create playlist",
	},
	"Diwali": {
		"Clean and decorate home",
		"Buy diyas and candles",
		"Prepare sweets",
		"Buy new clothes",
		"Purchase gifts",
		"Arrange rangoli materials",
		"Buy crackers (if applicable)",
		"Invite friends and family",
	},
	"Holi": {
		"Buy colors (gulal)",
		"Arrange water balloons",
		"Prepare snacks",
		"Buy new white clothes",
		"Invite friends",
		"Arrange music system",
		"Stock up on drinks",
	},
	DefaultKey: {
		"Create guest list",
		"Send invitations",
		"Arrange venue",
		"Order food/catering",
		"Arrange decorations",
		"Plan activities",
		"Purchase supplies",
	},
}

// ChecklistTemplate returns a copy of the task titles for eventType.
// Matching is exact; unknown types get the Default template.
func ChecklistTemplate(eventType string) []string {
	titles, ok := checklistTemplates[eventType]
	if !ok {
		titles = checklistTemplates[DefaultKey]
	}
	return append([]string(nil), titles...)
}

// GiftSuggestion a gift idea with an indicative budget range
type GiftSuggestion struct {
	Item     string `json:"item"`
	Budget   string `json:"budget"`
	Occasion string `json:"occasion"`
}

var giftSuggestions = map[string][]GiftSuggestion{
	"Wedding": {
		{"Silver Coin Set", "₹5,000 - ₹10,000", "Traditional"},
		{"Kitchen Appliances", "₹10,000 - ₹25,000", "Practical"},
		{"Gold Jewelry", "₹25,000+", "Premium"},
		{"Home Décor Items", "₹3,000 - ₹8,000", "Modern"},
		{"Dinner Set", "₹5,000 - ₹12,000", "Classic"},
	},
	"Birthday": {
		{"Personalized Photo Frame", "₹500 - ₹1,500", "Sentimental"},
		{"Smartwatch", "₹3,000 - ₹15,000", "Tech"},
		{"Gift Hamper", "₹1,000 - ₹5,000", "Classic"},
		{"Books", "₹500 - ₹2,000", "Thoughtful"},
		{"Perfume", "₹2,000 - ₹8,000", "Luxe"},
	},
	"Diwali": {
		{"Dry Fruits & Sweets Box", "₹1,000 - ₹3,000", "Traditional"},
		{"Decorative Diyas Set", "₹500 - ₹2,000", "Festive"},
		{"Silver Pooja Items", "₹3,000 - ₹10,000", "Religious"},
		{"Gift Vouchers", "₹1,000 - ₹5,000", "Modern"},
		{"Home Décor", "₹2,000 - ₹8,000", "Elegant"},
	},
	"Holi": {
		{"Organic Color Set", "₹300 - ₹1,000", "Eco-friendly"},
		{"Sweets & Snacks", "₹500 - ₹2,000", "Traditional"},
		{"Festive Attire", "₹1,000 - ₹3,000", "Fashionable"},
		{"Gift Hamper", "₹1,500 - ₹4,000", "Deluxe"},
	},
	"Housewarming": {
		{"Indoor Plants", "₹500 - ₹2,000", "Green"},
		{"Wall Clock", "₹1,000 - ₹3,000", "Practical"},
		{"Pooja Thali", "₹2,000 - ₹5,000", "Traditional"},
		{"Kitchen Essentials", "₹3,000 - ₹8,000", "Useful"},
		{"Decorative Items", "₹2,000 - ₹6,000", "Aesthetic"},
	},
	DefaultKey: {
		{"Gift Cards", "₹1,000 - ₹5,000", "Versatile"},
		{"Chocolates & Flowers", "₹500 - ₹2,000", "Classic"},
		{"Books", "₹500 - ₹2,000", "Thoughtful"},
		{"Personalized Gifts", "₹1,000 - ₹3,000", "Special"},
		{"Wellness Products", "₹1,500 - ₹5,000", "Care"},
	},
}

// GiftSuggestions returns gift ideas for eventType, falling back to Default.
func GiftSuggestions(eventType string) []GiftSuggestion {
	s, ok := giftSuggestions[eventType]
	if !ok {
		s = giftSuggestions[DefaultKey]
	}
	return append([]GiftSuggestion(nil), s...)
}
