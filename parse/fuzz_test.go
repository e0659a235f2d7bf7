package parse

import (
	"testing"

	"github.com/dweve/hedl-format/go-hedl/c14n"
)

func FuzzParse(f *testing.F) {
	// Seed with various valid inputs
	seeds := []string{
		// Minimal documents
		"%VERSION: 1.0\n---\n",
		"%VERSION: 1.0\n---\na: 1\n",
		"\ufeff%VERSION: 1.0\r\n---\r\na: 1\r\n",

		// Scalars
		"%VERSION: 1.0\n---\nb: true\nf: 3.5\ni: -17\nn: ~\ns: hello world\nq: \"42\"\n",
		"%VERSION: 1.0\n---\nv: \"say \"\"hi\"\"\"\n",

		// Objects
		"%VERSION: 1.0\n---\nserver:\n  host: localhost\n  port: 8080\n",
		"%VERSION: 1.0\n---\na:\n  b:\n    c: deep\n",

		// Matrix lists
		"%VERSION: 1.0\n%STRUCT: User: [id,name]\n---\nusers: @User\n  |u1,Alice\n  |u2,Bob\n",
		"%VERSION: 1.0\n---\nusers: @User[id,name]\n  |u1,Ada\n",
		"%VERSION: 1.0\n%STRUCT: Thing: [id]\n---\nthings: @Thing\n",
		"%VERSION: 1.0\n%STRUCT: P: [id,x]\n---\npoints(2): @P\n  |a,1\n  |b,2\n",

		// Nesting
		"%VERSION: 1.0\n%STRUCT: Team: [id,name]\n%STRUCT: Member: [id,role]\n%NEST: Team > Member\n---\nteams: @Team\n  |[1] eng,Engineering\n    |alice,lead\n",

		// Dittos
		"%VERSION: 1.0\n%STRUCT: P: [id,x,y]\n---\npoints: @P\n  |a,1,2\n  |b,^,3\n",

		// Block strings
		"%VERSION: 1.0\n---\nmsg: \"\"\"\nline one\nline two\n\"\"\"\n",
		"%VERSION: 1.0\n---\nmsg: \"\"\"\ntail\"\"\"\n",

		// Tensors, expressions, references
		"%VERSION: 1.0\n---\nvec: [1.0, 2.5]\nmat: [[1, 2], [3, 4]]\n",
		"%VERSION: 1.0\n---\ncalc: $(a + b)\n",
		"%VERSION: 1.0\n%STRUCT: User: [id,n]\n---\nusers: @User\n  |u1,1\nfav: @User:u1\n",

		// Aliases
		"%VERSION: 1.0\n%ALIAS: %hq: \"Headquarters\"\n---\nplace: %hq\n",

		// Comments and blank lines
		"%VERSION: 1.0\n# header comment\n---\n\na: 1 # trailing\n",

		// Malformed fragments
		"%VERSION: 2.0\n---\n",
		"%VERSION: 1.0\n---\na: [1, 2\n",
		"%VERSION: 1.0\n---\n  |orphan,row\n",
		"%VERSION: 1.0\n---\na: \"unclosed\n",
		"---\n",
		"%STRUCT: X: [id]\n",
	}

	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		// Primary target: parse should not panic
		doc, err := Parse(data)
		if err != nil {
			return // parse errors are expected for random input
		}

		// Secondary: if parse succeeds, canonicalization should not panic
		out, err := c14n.Canonicalize(doc)
		if err != nil {
			return // some values have no canonical text form
		}

		// Tertiary: round-trip parse should not panic
		Parse([]byte(out))
	})
}
