package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const articleFixture = `
types:
  - id: node
    label: Content
    subtypes:
      - id: article
        label: Article
        fields:
          - {name: title, label: Title, type: string}
          - name: field_sections
            label: Sections
            type: reference_revision
            target_type: paragraph
            target_subtypes: [gallery]
            cardinality: -1
  - id: paragraph
    label: Paragraph
    subtypes:
      - id: text
        label: Text
        fields:
          - {name: body, label: Body, type: text}
      - id: gallery
        label: Gallery
        fields:
          - {name: caption, label: Caption, type: string}
          - name: field_images
            label: Images
            type: reference
            target_type: media
            target_subtypes: [image]
            cardinality: 3
            display_configurable: true
  - id: media
    label: Media
    subtypes:
      - id: image
        label: Image
        fields:
          - {name: alt, label: Alt text, type: string}

records:
  - id: a1
    type: node
    subtype: article
    language: en
    refs:
      field_sections: [t1, g1, g2]
  - {id: t1, type: paragraph, subtype: text, language: en, values: {body: Intro}}
  - {id: g1, type: paragraph, subtype: gallery, language: en, values: {caption: Summer trip}, refs: {field_images: [m1, m2]}}
  - {id: g2, type: paragraph, subtype: gallery, language: en, values: {caption: Winter}, refs: {field_images: [m3]}}
  - {id: m1, type: media, subtype: image, language: en, values: {alt: First image}}
  - {id: m2, type: media, subtype: image, language: de, values: {alt: Second image}}
  - {id: m3, type: media, subtype: image, language: fr, values: {alt: Third image}}
`

const (
	galleryPath = "field_sections:paragraph:gallery"
	imagesPath  = "field_sections:paragraph:gallery|field_images:media:image"
	imagesLabel = "Paragraph (field_sections): Gallery > Media (field_images): Image"
)

const articleDisplays = `
displays:
  images:
    root: {type: node, subtype: article, field: field_sections}
    relationship: "field_sections:paragraph:gallery|field_images:media:image"
    view_mode: teaser
    cardinality:
      - {mode: all}
      - {mode: first}
  captions:
    root: {type: node, subtype: article, field: field_sections}
    relationship: "field_sections:paragraph:gallery"
    field: caption
    formatter: trimmed
    settings:
      trim_length: 5
  unset:
    root: {type: node, subtype: article, field: field_sections}
`

// writeWorkspace writes a fixture and a config using it into a temporary
// directory and points the --config flag at it for the rest of the test.
func writeWorkspace(t *testing.T, fixtureYAML, displaysYAML string) string {
	t.Helper()
	dir := t.TempDir()

	fixtureFile := filepath.Join(dir, "fixture.yaml")
	require.NoError(t, os.WriteFile(fixtureFile, []byte(fixtureYAML), 0644))

	configContent := "schema:\n  source: fixture\n  fixture: " + fixtureFile + "\n" +
		"logging:\n  level: error\n" + displaysYAML
	configFile := filepath.Join(dir, "gorefpath.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	useConfig(t, configFile)
	return configFile
}

func useConfig(t *testing.T, path string) {
	t.Helper()
	original := cfgFile
	originalFixture := fixturePath
	cfgFile = path
	fixturePath = ""
	t.Cleanup(func() {
		cfgFile = original
		fixturePath = originalFixture
	})
}

// captureOutput redirects the shared output writer until the test ends.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	setOutputWriter(&buf)
	t.Cleanup(resetOutputWriter)
	return &buf
}

func setFlag(t *testing.T, target *string, value string) {
	t.Helper()
	original := *target
	*target = value
	t.Cleanup(func() { *target = original })
}
