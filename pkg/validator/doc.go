// Package validator builds declarative field checks.
//
// A Rule pairs a Check func with the ValidationError reported when it fails.
// Apply runs a list of rules and returns every failure at once as
// ValidationErrors, which implements error and survives errors.Join:
//
//	err := validator.Apply(
//	    validator.RequiredString("legal_name", name),
//	    validator.MaxLenString("legal_name", name, 200),
//	    validator.InList("business_type", kind, paper.BusinessTypes()),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for _, field := range verrs.Fields() {
//	        fmt.Println(field, verrs.Get(field))
//	    }
//	}
//
// Custom rules are plain Rule literals.
package validator
