/*
Package envguard validates and compares .env files against declarative schemas.

A schema lists the variables an application expects, with a type (string, int or bool),
a required flag and optional integer bounds. envguard parses KEY=value text, coerces each
value and sorts every key into one of four buckets: missing, invalid, extra or validated.
Two environments can then be diffed on their coerced values.

# Usage

	guard, err := envguard.New()
	if err != nil {
		log.Fatal(err)
	}

	report, err := guard.Validate(ctx, "PORT=80\nDEBUG=yes", envguard.Named("generic"))
	if err != nil {
		log.Fatal(err) // *dotenv.ParseError or *schema.SchemaError
	}
	fmt.Println(report.Missing, report.Invalid)

# Schemas

Six schemas are embedded (generic, flask, fastapi, django, node and dockerfile).
WithSource swaps them for a directory (file.NewDirSource), Redis (redis.New) or a
chain of sources. A schema can also be passed inline with envguard.Inline.

	variables:
	  PORT:
	    type: int
	    required: true
	    min: 1024
	    max: 65535
	  DEBUG:
	    type: bool

# Adapters

The same Guard backs the HTTP server (pkg/adapters/http), the MCP tool server
(pkg/adapters/mcp) and the envguard command.
*/
package envguard
