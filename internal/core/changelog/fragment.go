package changelog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/example/entity-audit/internal/models"
)

// Anchors that column and changelog insertions are spliced before.
const (
	ColumnNeedle    = "jhipster-needle-liquibase-add-column"
	CreateTableEnd  = "</createTable>"
	ChangelogNeedle = "jhipster-needle-liquibase-add-changelog"
	MasterEnd       = "</databaseChangeLog>"
)

// RenderColumns renders columns as Liquibase XML, every line prefixed by indent.
func RenderColumns(columns []models.Column, indent string) string {
	var b strings.Builder
	for _, c := range columns {
		attrs := fmt.Sprintf(`name="%s" type="%s"`, c.Name, c.Type)
		if c.DefaultValue != "" {
			attrs += fmt.Sprintf(` defaultValue="%s"`, c.DefaultValue)
		}
		if c.DefaultValueDate != "" {
			attrs += fmt.Sprintf(` defaultValueDate="%s"`, c.DefaultValueDate)
		}

		if !c.NotNull {
			fmt.Fprintf(&b, "%s<column %s/>\n", indent, attrs)
			continue
		}
		fmt.Fprintf(&b, "%s<column %s>\n", indent, attrs)
		fmt.Fprintf(&b, "%s    <constraints nullable=\"false\"/>\n", indent)
		fmt.Fprintf(&b, "%s</column>\n", indent)
	}
	return b.String()
}

// MissingColumns returns the columns whose name is not yet declared in content.
func MissingColumns(content string, columns []models.Column) []models.Column {
	var missing []models.Column
	for _, c := range columns {
		re := regexp.MustCompile(`<column\s+name="` + regexp.QuoteMeta(c.Name) + `"`)
		if !re.MatchString(content) {
			missing = append(missing, c)
		}
	}
	return missing
}

// IncludeLine returns the master changelog include for a changelog file name.
func IncludeLine(fileName string) string {
	return fmt.Sprintf(`<include file="config/liquibase/changelog/%s" relativeToChangelogFile="false"/>`, fileName)
}
