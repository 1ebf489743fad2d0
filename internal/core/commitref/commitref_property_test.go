package commitref

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: Parse(".../{owner}/{repo}/commit/{sha}") recovers exactly {owner, repo, sha}
func TestParseRecoversCoordinates(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	segment := gen.Identifier().SuchThat(func(s string) bool { return s != "" })
	sha := gen.RegexMatch("[0-9a-f]{40}")

	properties.Property("parse recovers owner, repo and ref", prop.ForAll(
		func(host, owner, repo, ref string) bool {
			url := "https://" + strings.ToLower(host) + ".example/" + owner + "/" + repo + "/commit/" + ref
			got, err := Parse(url)
			if err != nil {
				return false
			}
			return got == Reference{Owner: owner, Repository: repo, Ref: ref}
		},
		segment, segment, segment, sha,
	))

	properties.Property("fewer than four segments never parse", prop.ForAll(
		func(a, b string) bool {
			_, err := Parse(a + "/" + b)
			return err != nil
		},
		gen.AlphaString(), gen.AlphaString(),
	))

	properties.TestingRun(t)
}
