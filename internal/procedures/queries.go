package procedures

// SQL query constants for the routine catalog.
// Centralizing queries here keeps SQL separate from Go code.

const (
	// queryProcParameters reads declared parameter metadata for a procedure,
	// ordered by declaration position.
	// Parameter @proc: procedure name.
	queryProcParameters = `
		SELECT PARAMETER_NAME, DATA_TYPE, PARAMETER_MODE
		FROM INFORMATION_SCHEMA.PARAMETERS
		WHERE SPECIFIC_NAME = @proc
		ORDER BY ORDINAL_POSITION
	`

	// queryProcList reads procedure names matching a LIKE pattern.
	// Parameter @pattern: LIKE pattern, e.g. '%group%'.
	queryProcList = `
		SELECT SPECIFIC_NAME
		FROM INFORMATION_SCHEMA.ROUTINES
		WHERE ROUTINE_TYPE = 'PROCEDURE' AND SPECIFIC_NAME LIKE @pattern
		ORDER BY SPECIFIC_NAME
	`

	// queryProcExists checks whether a procedure exists.
	// Parameter @proc: procedure name.
	queryProcExists = `
		SELECT COUNT(*)
		FROM INFORMATION_SCHEMA.ROUTINES
		WHERE SPECIFIC_NAME = @proc AND ROUTINE_TYPE = 'PROCEDURE'
	`

	// queryProcDetails reads a procedure's definition and timestamps.
	// Parameter @proc: procedure name.
	queryProcDetails = `
		SELECT SPECIFIC_NAME, ROUTINE_DEFINITION, ROUTINE_TYPE, CREATED, LAST_ALTERED
		FROM INFORMATION_SCHEMA.ROUTINES
		WHERE SPECIFIC_NAME = @proc AND ROUTINE_TYPE = 'PROCEDURE'
	`
)
