package components

// FieldDescriptor describes a component field for UI display.
type FieldDescriptor struct {
	ID           string  // Unique identifier
	Label        string  // Display name
	Format       string  // Printf format (e.g., "%.2f")
	Min          float64 // Minimum value (for bars)
	Max          float64 // Maximum value (for bars)
	IsCentered   bool    // True for centered bar display
	IsBar        bool    // True to render as progress bar
	ShowWhenZero bool    // Show even when value is zero
	Group        string  // Logical grouping
}

// ParticleFieldDescriptors returns metadata for particle component fields.
func ParticleFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "face", Label: "Face", Format: "%.0f", ShowWhenZero: true, Group: "position"},
		{ID: "i", Label: "I", Format: "%.2f", ShowWhenZero: true, Group: "position"},
		{ID: "j", Label: "J", Format: "%.2f", ShowWhenZero: true, Group: "position"},
		{ID: "u", Label: "U", Format: "%.4f", Min: -0.05, Max: 0.05, IsCentered: true, Group: "current"},
		{ID: "v", Label: "V", Format: "%.4f", Min: -0.05, Max: 0.05, IsCentered: true, Group: "current"},
		{ID: "speed", Label: "Speed", Format: "%.2f", Min: 0, Max: 1, IsBar: true, ShowWhenZero: true, Group: "current"},
		{ID: "life", Label: "Life", Format: "%.2f", Min: 0, Max: 1, IsBar: true, ShowWhenZero: true, Group: "life"},
	}
}

// ParticleValue returns the value of the field with the given ID.
// Unknown IDs return 0.
func ParticleValue(pos *GridPos, cur *Current, life *Life, fieldID string) float64 {
	switch fieldID {
	case "face":
		return float64(pos.Face)
	case "i":
		return pos.I
	case "j":
		return pos.J
	case "u":
		return cur.U
	case "v":
		return cur.V
	case "speed":
		return cur.M
	case "life":
		return life.Remaining
	}
	return 0
}
