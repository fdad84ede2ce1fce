/*
Package dotenv parses `.env`-style text into an ordered, immutable Environment.

The accepted grammar is deliberately small:

  - one `KEY=value` pair per line, split on the first `=` only;
  - surrounding whitespace is trimmed from the line, the key and the value;
  - blank lines and lines starting with `#` are skipped;
  - no quoting, escaping, inline comments, variable expansion or multiline values.

Malformed input (a line without `=`, an empty key, or a repeated key) yields a *ParseError
carrying the 1-based line number. No partial Environment is ever returned.

	env, err := dotenv.Parse("PORT=8000\nDEBUG=true")
	if err != nil {
	    var perr *dotenv.ParseError
	    if errors.As(err, &perr) {
	        log.Printf("line %d: %v", perr.Line, perr.Err)
	    }
	}
	port, _ := env.Get("PORT") // "8000"
*/
package dotenv
