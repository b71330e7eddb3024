package uigen

import "sort"

// ComponentDoc is the documentation entry for one UI component in the
// catalog the generator is allowed to use.
type ComponentDoc struct {
	Name        string            `json:"componentName"`
	Description string            `json:"description"`
	Example     string            `json:"example"`
	Props       map[string]string `json:"props,omitempty"`
}

var componentCatalog = map[string]ComponentDoc{
	"button": {
		Name:        "button",
		Description: "Clickable button with visual style and size variants.",
		Example: `<Button variant="default" size="default">Click me</Button>
<Button variant="destructive">Delete</Button>
<Button variant="outline" size="sm">Small Outline</Button>`,
		Props: map[string]string{
			"variant":   `"default" | "destructive" | "outline" | "secondary" | "ghost" | "link"`,
			"size":      `"default" | "sm" | "lg" | "icon"`,
			"className": "string - Additional CSS classes",
		},
	},
	"input": {
		Name:        "input",
		Description: "Text input field with built-in styling for focus, validation, and file inputs.",
		Example: `<Input type="text" placeholder="Enter text" />
<Input type="email" placeholder="Email address" />`,
		Props: map[string]string{
			"type":        "string - HTML input type (text, email, password, file, ...)",
			"placeholder": "string - Placeholder text",
			"className":   "string - Additional CSS classes",
		},
	},
	"card": {
		Name:        "card",
		Description: "Container with header, content and footer sections for grouped information.",
		Example: `<Card>
  <CardHeader><CardTitle>Crisis summary</CardTitle></CardHeader>
  <CardContent>Details go here</CardContent>
</Card>`,
		Props: map[string]string{
			"className": "string - Additional CSS classes",
		},
	},
	"table": {
		Name:        "table",
		Description: "Data table with header, body and caption, suited for tabular records.",
		Example: `<Table>
  <TableHeader><TableRow><TableHead>Area</TableHead></TableRow></TableHeader>
  <TableBody><TableRow><TableCell>Andheri</TableCell></TableRow></TableBody>
</Table>`,
		Props: map[string]string{
			"className": "string - Additional CSS classes",
		},
	},
	"badge": {
		Name:        "badge",
		Description: "Small status label, used for severities and categories.",
		Example:     `<Badge variant="destructive">High risk</Badge>`,
		Props: map[string]string{
			"variant": `"default" | "secondary" | "destructive" | "outline"`,
		},
	},
	"chart": {
		Name:        "chart",
		Description: "Chart wrapper for plotting time series and aggregates.",
		Example:     `<Chart data={data} />`,
		Props: map[string]string{
			"data": "array - Data points to plot",
		},
	},
	"alert": {
		Name:        "alert",
		Description: "Callout box for warnings and important notices.",
		Example:     `<Alert><AlertTitle>Heads up</AlertTitle><AlertDescription>Supplies low.</AlertDescription></Alert>`,
		Props: map[string]string{
			"variant": `"default" | "destructive"`,
		},
	},
	"tabs": {
		Name:        "tabs",
		Description: "Tabbed views for switching between related panels.",
		Example: `<Tabs defaultValue="threats">
  <TabsList><TabsTrigger value="threats">Threats</TabsTrigger></TabsList>
  <TabsContent value="threats">...</TabsContent>
</Tabs>`,
		Props: map[string]string{
			"defaultValue": "string - Initially selected tab",
		},
	},
}

// CatalogNames returns the known component names in sorted order.
func CatalogNames() []string {
	names := make([]string, 0, len(componentCatalog))
	for name := range componentCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupDoc returns the catalog entry for a component, or a stub entry for
// names the catalog does not know yet.
func LookupDoc(name string) ComponentDoc {
	if doc, ok := componentCatalog[name]; ok {
		return doc
	}
	return ComponentDoc{
		Name:        name,
		Description: "Reusable UI component built with Radix UI and Tailwind CSS.",
		Example:     "<" + name + ">Content</" + name + ">",
	}
}
