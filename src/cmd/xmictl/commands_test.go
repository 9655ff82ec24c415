package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"xmimodel/src/domain/xmi"
	"xmimodel/src/test_artefacts/stubs"
)

var _ = Describe("decode", func() {
	var (
		dir string
		out *bytes.Buffer
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		out = &bytes.Buffer{}
	})

	execute := func(args ...string) error {
		cmd := rootCmd()
		cmd.SetOut(out)
		cmd.SetErr(GinkgoWriter)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	writeFile := func(name string, content []byte) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, content, 0o600)).To(Succeed())
		return path
	}

	It("should print the counts of a JSON document", func() {
		// ARRANGE
		raw, _ := json.Marshal(stubs.NewXmiDocumentStub().WithCurveMembers(2).Get())
		path := writeFile("model.json", raw)

		// ACT
		err := execute("decode", path, "--output", "json")

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		var report decodeReport
		Expect(json.Unmarshal(out.Bytes(), &report)).To(Succeed())
		Expect(report.Counts).To(HaveKeyWithValue(xmi.TypeCurveMember, 2))
		Expect(report.Errors).To(BeEmpty())
	})

	It("should read YAML by extension", func() {
		// ARRANGE
		path := writeFile("model.yml", []byte("StructuralMaterial:\n  - ID: m1\n    Name: S355\n    Type: Steel\n"))

		// ACT
		err := execute("decode", path)

		// ASSERT
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(MatchRegexp(`StructuralMaterial\s+1`))
	})

	It("should fail in strict mode when records are rejected", func() {
		// ARRANGE
		doc := stubs.NewXmiDocumentStub().
			WithRecord(xmi.TypeCurveMember, xmi.Dict{"ID": "orphan", "CrossSection": "ghost"}).
			Get()
		raw, _ := json.Marshal(doc)
		path := writeFile("model.json", raw)

		// ACT
		err := execute("decode", path, "--strict")

		// ASSERT
		Expect(err).To(MatchError(errRecordErrors))
		Expect(out.String()).To(ContainSubstring("orphan"))
	})

	It("should reject an unknown format", func() {
		// ARRANGE
		path := writeFile("model.txt", []byte("{}"))

		// ACT
		err := execute("decode", path, "--format", "toml")

		// ASSERT
		Expect(err).To(MatchError(ContainSubstring("unsupported format")))
	})
})
