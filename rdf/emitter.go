package rdf

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/schema"
	"github.com/I14Y-ch/structure-generator/vocabulary"
)

// StructureVersion is the version literal stamped on every exported
// structure definition.
const StructureVersion = "1.0.0"

// Emitter converts a schema graph into a SHACL structure definition in
// Turtle. Emission is a pure read of the graph; the caller serializes
// access while an export runs.
type Emitter struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewEmitter creates an emitter. A nil logger falls back to the
// default slog logger.
func NewEmitter(logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{logger: logger, now: time.Now}
}

// WithClock overrides the emission clock, used to pin the validFrom
// date in tests.
func (e *Emitter) WithClock(now func() time.Time) *Emitter {
	e.now = now
	return e
}

// Emit produces the final Turtle document: the canonical prefix block
// followed by the triple body.
func (e *Emitter) Emit(sg *schema.Graph) (string, error) {
	g, datasetID, err := e.Build(sg)
	if err != nil {
		return "", err
	}
	return assembleDocument(g, datasetID), nil
}

// Build converts the schema graph into an RDF graph, returning the
// triple store and the normalized dataset identifier. Missing dataset
// is the only failure; every optional field is skipped silently.
func (e *Emitter) Build(sg *schema.Graph) (*Graph, string, error) {
	ds := sg.Dataset()
	if ds == nil {
		return nil, "", serr.WrapFatal(serr.ErrDatasetMissing, "rdf", "Build", "locate dataset node")
	}

	datasetID := vocabulary.DatasetID(ds.DisplayTitle())
	ns := vocabulary.DatasetNamespace(datasetID)

	g := NewGraph()
	bindCanonical(g, ns)

	st := &emitState{
		graph:    sg,
		g:        g,
		ns:       ns,
		langSeen: make(map[langKey]string),
		logger:   e.logger,
	}

	datasetShape := IRI(ns + datasetID)
	g.Add(datasetShape, IRI(vocabulary.RDFType), IRI(vocabulary.SHNodeShape))
	g.Add(datasetShape, IRI(vocabulary.RDFType), IRI(vocabulary.RDFSClass))
	g.Add(datasetShape, IRI(vocabulary.RDFType), IRI(vocabulary.QBStructureDefinition))

	g.Add(datasetShape, IRI(vocabulary.PAVVersion), Literal(StructureVersion))
	g.Add(datasetShape, IRI(vocabulary.SchemaVersion), Literal(StructureVersion))
	g.Add(datasetShape, IRI(vocabulary.SchemaValidFrom),
		TypedLiteral(e.now().Format("2006-01-02"), vocabulary.XSDDate))

	st.addTitles(datasetShape, ds.Title, vocabulary.DCTTitle, vocabulary.RDFSLabel)
	st.addTitles(datasetShape, ds.Description, vocabulary.DCTDescription, vocabulary.RDFSComment)

	classes, properties := partition(sg, ds)

	// Class shapes first so dataset references can point at them.
	classShapes := make(map[string]Term, len(classes))
	for _, cls := range classes {
		classShapes[cls.ID] = st.emitClassShape(cls)
	}

	for _, p := range properties {
		st.emitPropertyShape(ds, p, ns+datasetID+"/", datasetShape)
	}

	for _, cls := range classes {
		st.emitClassReference(ds, cls, classShapes[cls.ID], datasetID, datasetShape)
	}

	st.emitXoneGroups(ds, datasetShape)

	return g, datasetID, nil
}

// bindCanonical registers the canonical prefix set in its fixed order.
func bindCanonical(g *Graph, ns string) {
	g.Bind("rdf", vocabulary.RDF)
	g.Bind("rdfs", vocabulary.RDFS)
	g.Bind("xsd", vocabulary.XSD)
	g.Bind("xml", vocabulary.XML)
	g.Bind("QB", vocabulary.QB)
	g.Bind("dcterms", vocabulary.DCT)
	g.Bind("i14y", ns)
	g.Bind("owl", vocabulary.OWL)
	g.Bind("pav", vocabulary.PAV)
	g.Bind("schema", vocabulary.Schema)
	g.Bind("sh", vocabulary.SH)
}

// partition splits the dataset's direct connections into classes and
// property-bearing nodes, keeping connection order.
func partition(sg *schema.Graph, ds *schema.Node) (classes, properties []*schema.Node) {
	for _, id := range ds.Connections() {
		n, err := sg.Node(id)
		if err != nil {
			continue
		}
		switch {
		case n.Kind == schema.KindClass:
			classes = append(classes, n)
		case n.Kind.IsProperty():
			properties = append(properties, n)
		}
	}
	return classes, properties
}

type langKey struct {
	subject   string
	predicate string
	lang      string
}

// emitState carries the per-export bookkeeping: the blank node counter
// for RDF lists, the property order counter and the language tracker
// that suppresses duplicate language tags per subject and predicate.
type emitState struct {
	graph      *schema.Graph
	g          *Graph
	ns         string
	blankCount int
	orderCount int
	langSeen   map[langKey]string
	logger     *slog.Logger
}

func (st *emitState) nextBlank() Term {
	b := Blank("autos" + strconv.Itoa(st.blankCount))
	st.blankCount++
	return b
}

// addLangLiteral adds a language-tagged literal unless the subject
// already carries one for that predicate and language.
func (st *emitState) addLangLiteral(subject Term, predicate, content, lang string) {
	if content == "" {
		return
	}
	key := langKey{subject: subject.Value, predicate: predicate, lang: lang}
	if prev, seen := st.langSeen[key]; seen {
		if prev != content {
			st.logger.Debug("conflicting literal for language tag skipped",
				"subject", subject.Value,
				"predicate", predicate,
				"lang", lang)
		}
		return
	}
	st.langSeen[key] = content
	st.g.Add(subject, IRI(predicate), LangLiteral(content, lang))
}

// addTitles emits the deduplicated multilingual values of a text under
// each given predicate.
func (st *emitState) addTitles(subject Term, text schema.Text, predicates ...string) {
	if text.IsEmpty() {
		return
	}
	for _, lv := range orderedLangList(text) {
		for _, pred := range predicates {
			st.addLangLiteral(subject, pred, lv.value, lv.lang)
		}
	}
}

type langValue struct {
	lang  string
	value string
}

// orderedLangList applies the dedup policy and returns the surviving
// values in fixed language priority order so emission stays stable.
func orderedLangList(text schema.Text) []langValue {
	unique := schema.UniqueLangValues(text.Languages())
	var out []langValue
	for _, lang := range []string{"de", "en", "fr", "it"} {
		if v, ok := unique[lang]; ok {
			out = append(out, langValue{lang: lang, value: v})
		}
	}
	return out
}

// emitClassShape declares the closed NodeShape for a class and the
// property shapes of everything attached to it.
func (st *emitState) emitClassShape(cls *schema.Node) Term {
	classID := vocabulary.NormalizeID(cls.DisplayTitle())
	classURI := IRI(st.ns + classID + "Type")

	st.g.Add(classURI, IRI(vocabulary.RDFType), IRI(vocabulary.RDFSClass))
	st.g.Add(classURI, IRI(vocabulary.RDFType), IRI(vocabulary.SHNodeShape))
	st.g.Add(classURI, IRI(vocabulary.SHClosed), TypedLiteral("true", vocabulary.XSDBoolean))

	if title := schema.SanitizeLiteral(cls.DisplayTitle()); title != "" {
		st.addLangLiteral(classURI, vocabulary.SHName, title+"Type", "en")
	}
	st.addTitles(classURI, cls.Description, vocabulary.DCTDescription, vocabulary.RDFSComment)

	base := st.ns + classID + "/"
	for _, id := range cls.Connections() {
		n, err := st.graph.Node(id)
		if err != nil || !n.Kind.IsProperty() {
			continue
		}
		st.emitPropertyShape(cls, n, base, classURI)
	}

	for _, id := range cls.Connections() {
		n, err := st.graph.Node(id)
		if err != nil || n.Kind != schema.KindClass {
			continue
		}
		st.emitClassToClass(cls, n, classID, classURI)
	}

	return classURI
}

// emitPropertyShape declares the PropertyShape for a concept or data
// element and attaches it to its owning shape.
func (st *emitState) emitPropertyShape(owner, node *schema.Node, base string, ownerShape Term) {
	propID := vocabulary.NormalizeID(node.DisplayTitle())
	uri := IRI(base + propID)

	st.g.Add(uri, IRI(vocabulary.RDFType), IRI(vocabulary.SHPropertyShape))
	st.g.Add(uri, IRI(vocabulary.RDFType), IRI(vocabulary.OWLDatatypeProperty))
	st.g.Add(uri, IRI(vocabulary.RDFType), IRI(vocabulary.QBAttributeProperty))
	st.g.Add(uri, IRI(vocabulary.SHPath), uri)
	st.g.Add(uri, IRI(vocabulary.SHDatatype), IRI(resolveDatatype(node.Datatype)))
	st.addOrder(uri, node)

	if node.ConceptURI != "" {
		st.g.Add(uri, IRI(vocabulary.DCTConformsTo), IRI(node.ConceptURI))
	}

	minCount, maxCount := st.resolveCounts(owner, node)
	st.addCount(uri, vocabulary.SHMinCount, minCount)
	st.addCount(uri, vocabulary.SHMaxCount, maxCount)
	st.addCount(uri, vocabulary.SHMinLength, node.MinLength)
	st.addCount(uri, vocabulary.SHMaxLength, node.MaxLength)

	if node.Pattern != "" {
		st.g.Add(uri, IRI(vocabulary.SHPattern), Literal(node.Pattern))
	}
	if node.Range != "" {
		st.g.Add(uri, IRI(vocabulary.RDFSRange), IRI(node.Range))
	}
	if node.NodeReference != "" {
		st.g.Add(uri, IRI(vocabulary.SHNode), IRI(node.NodeReference))
	}

	if len(node.InValues) > 0 {
		st.g.Add(uri, IRI(vocabulary.RDFType), IRI(vocabulary.QBCodedProperty))
		head := st.emitValueList(node.InValues)
		st.g.Add(uri, IRI(vocabulary.SHIn), head)
	}

	st.addTitles(uri, node.Title,
		vocabulary.DCTTitle, vocabulary.RDFSLabel, vocabulary.SHName)
	st.addTitles(uri, node.Description,
		vocabulary.DCTDescription, vocabulary.RDFSComment, vocabulary.SHDescription)

	st.g.Add(ownerShape, IRI(vocabulary.SHProperty), uri)
}

// emitClassReference links a class shape into the dataset via an
// object-property PropertyShape.
func (st *emitState) emitClassReference(ds, cls *schema.Node, classShape Term, datasetID string, datasetShape Term) {
	classID := vocabulary.NormalizeID(cls.DisplayTitle())
	uri := IRI(st.ns + datasetID + "/" + classID)

	st.g.Add(uri, IRI(vocabulary.RDFType), IRI(vocabulary.SHPropertyShape))
	st.g.Add(uri, IRI(vocabulary.RDFType), IRI(vocabulary.OWLObjectProperty))
	st.g.Add(uri, IRI(vocabulary.SHPath), uri)
	st.addOrder(uri, cls)
	st.g.Add(uri, IRI(vocabulary.SHNode), classShape)

	minCount, maxCount := st.resolveCounts(ds, cls)
	st.addCount(uri, vocabulary.SHMinCount, minCount)
	st.addCount(uri, vocabulary.SHMaxCount, maxCount)

	st.addTitles(uri, cls.Title,
		vocabulary.DCTTitle, vocabulary.RDFSLabel, vocabulary.SHName)

	st.g.Add(datasetShape, IRI(vocabulary.SHProperty), uri)
}

// emitClassToClass declares the relationship property between two
// classes, named <class>_has_<other>.
func (st *emitState) emitClassToClass(cls, other *schema.Node, classID string, classShape Term) {
	otherID := vocabulary.NormalizeID(other.DisplayTitle())
	uri := IRI(st.ns + classID + "_has_" + otherID)

	st.g.Add(uri, IRI(vocabulary.RDFType), IRI(vocabulary.SHPropertyShape))
	st.g.Add(uri, IRI(vocabulary.RDFType), IRI(vocabulary.OWLObjectProperty))
	st.g.Add(uri, IRI(vocabulary.SHPath), uri)
	st.addOrder(uri, nil)
	st.g.Add(uri, IRI(vocabulary.SHNode), IRI(st.ns+otherID+"Type"))

	minCount, maxCount := st.resolveCounts(cls, other)
	st.addCount(uri, vocabulary.SHMinCount, minCount)
	st.addCount(uri, vocabulary.SHMaxCount, maxCount)

	title := schema.SanitizeLiteral("has " + other.DisplayTitle())
	desc := schema.SanitizeLiteral("Reference to " + other.DisplayTitle() + " instances")
	for _, pred := range []string{vocabulary.DCTTitle, vocabulary.RDFSLabel, vocabulary.SHName} {
		st.addLangLiteral(uri, pred, title, "de")
	}
	for _, pred := range []string{vocabulary.DCTDescription, vocabulary.RDFSComment, vocabulary.SHDescription} {
		st.addLangLiteral(uri, pred, desc, "de")
	}

	st.g.Add(classShape, IRI(vocabulary.SHProperty), uri)
}

// emitValueList builds a proper RDF collection over the values and
// returns its head. Blank labels come from the document-wide counter.
func (st *emitState) emitValueList(values []string) Term {
	head := st.nextBlank()
	current := head
	for i, value := range values {
		st.g.Add(current, IRI(vocabulary.RDFFirst), Literal(value))
		if i == len(values)-1 {
			st.g.Add(current, IRI(vocabulary.RDFRest), IRI(vocabulary.RDFNil))
			break
		}
		next := st.nextBlank()
		st.g.Add(current, IRI(vocabulary.RDFRest), next)
		current = next
	}
	return head
}

// emitXoneGroups declares the exclusive property groups of the dataset
// as nested RDF lists of anonymous property shapes.
func (st *emitState) emitXoneGroups(ds *schema.Node, datasetShape Term) {
	for _, group := range ds.XoneGroups {
		if len(group) == 0 {
			continue
		}
		current := st.nextBlank()
		st.g.Add(datasetShape, IRI(vocabulary.SHXone), current)
		for i, propURI := range group {
			shape := st.nextBlank()
			st.g.Add(current, IRI(vocabulary.RDFFirst), shape)
			st.g.Add(shape, IRI(vocabulary.RDFType), IRI(vocabulary.SHPropertyShape))
			st.g.Add(shape, IRI(vocabulary.SHPath), IRI(propURI))
			if i == len(group)-1 {
				st.g.Add(current, IRI(vocabulary.RDFRest), IRI(vocabulary.RDFNil))
				break
			}
			next := st.nextBlank()
			st.g.Add(current, IRI(vocabulary.RDFRest), next)
			current = next
		}
	}
}

// addOrder emits sh:order, preferring an explicit sort key over the
// running emission counter.
func (st *emitState) addOrder(uri Term, node *schema.Node) {
	order := st.orderCount
	if node != nil && node.Order != nil {
		order = *node.Order
	}
	st.g.Add(uri, IRI(vocabulary.SHOrder),
		TypedLiteral(strconv.Itoa(order), vocabulary.XSDInteger))
	st.orderCount++
}

func (st *emitState) addCount(uri Term, predicate string, count *int) {
	if count == nil {
		return
	}
	st.g.Add(uri, IRI(predicate),
		TypedLiteral(strconv.Itoa(*count), vocabulary.XSDInteger))
}

// resolveCounts derives min/max counts for a property: the owning
// edge's cardinality wins, the node's stored counts fill gaps, and
// data elements default to a minimum of one.
func (st *emitState) resolveCounts(owner, node *schema.Node) (*int, *int) {
	var minCount, maxCount *int
	if e, err := st.graph.EdgeBetween(owner.ID, node.ID); err == nil {
		minCount, maxCount = schema.ParseCardinality(e.Cardinality)
	}
	if minCount == nil {
		minCount = node.MinCount
	}
	if maxCount == nil {
		maxCount = node.MaxCount
	}
	if minCount == nil && node.Kind == schema.KindDataElement {
		one := 1
		minCount = &one
	}
	return minCount, maxCount
}

// resolveDatatype maps a stored datatype to an IRI: xsd-prefixed names
// resolve against the XSD namespace, anything else passes through as
// an opaque IRI, absence defaults to xsd:string.
func resolveDatatype(dt string) string {
	if dt == "" {
		return vocabulary.XSDString
	}
	if name, ok := strings.CutPrefix(dt, "xsd:"); ok {
		return vocabulary.XSD + name
	}
	return dt
}

// assembleDocument prepends the canonical prefix block and strips any
// prefix lines the serializer produced for the same names.
func assembleDocument(g *Graph, datasetID string) string {
	var block strings.Builder
	seen := make(map[string]bool)
	for _, p := range g.Prefixes() {
		block.WriteString("@prefix " + p.Name + ": <" + p.Namespace + ">.\n")
		seen[p.Name] = true
	}
	block.WriteString("\n")

	var body []string
	for _, line := range strings.Split(g.Turtle(), "\n") {
		if name, ok := prefixName(line); ok {
			if seen[name] {
				continue
			}
			seen[name] = true
			block.WriteString(line + "\n")
			continue
		}
		if strings.TrimSpace(line) != "" {
			body = append(body, line)
		}
	}
	return block.String() + strings.Join(body, "\n") + "\n"
}

func prefixName(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, "@prefix ")
	if !ok {
		return "", false
	}
	name, _, found := strings.Cut(rest, ":")
	return name, found
}
