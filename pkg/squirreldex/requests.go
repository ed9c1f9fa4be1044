package squirreldex

// Request DTOs

// CreateSquirrelParams contains parameters for creating a new squirrel
type CreateSquirrelParams struct {
	ScientificName  string
	CommonName      string
	Description     string
	FemaleSize      string
	MaleSize        string
	Distribution    string
	Variations      []string
	Conservation    string
	PopulationTrend string
	Habitat         string
	General         *string
}

// UpdateSquirrelParams contains parameters for a partial squirrel update.
// Nil fields are left unchanged.
type UpdateSquirrelParams struct {
	ScientificName  *string
	CommonName      *string
	Description     *string
	FemaleSize      *string
	MaleSize        *string
	Distribution    *string
	Variations      *[]string
	Conservation    *string
	PopulationTrend *string
	Habitat         *string
	General         *string
}
