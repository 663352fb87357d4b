//go:build cgo

package parser

import (
	"context"
	"path/filepath"
	"testing"

	"repolens/internal/errors"
)

func findFunction(fns []FunctionRecord, name string) *FunctionRecord {
	for i := range fns {
		if fns[i].Name == name {
			return &fns[i]
		}
	}
	return nil
}

func TestExtractSource_JavaScript(t *testing.T) {
	source := []byte(`
function simple() {
	console.log("hello");
}

function withIf(x) {
	if (x > 0) {
		console.log("positive");
	}
}

function withTernary(x) {
	return x > 0 ? "positive" : "non-positive";
}

function withAndOr(a, b) {
	if (a && b) {
		console.log("both");
	}
	return a || b;
}

function withLoop(items) {
	for (const item of items) {
		console.log(item);
	}
}

const arrow = (x) => x * 2;
var bound = function (y) { return y; };
`)

	e := NewExtractor()
	rec, err := e.ExtractSource(context.Background(), "src/app.js", source, DialectJS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Language != "javascript" {
		t.Errorf("expected language javascript, got %s", rec.Language)
	}
	if len(rec.Functions) != 7 {
		t.Fatalf("expected 7 functions, got %d", len(rec.Functions))
	}

	cases := map[string]int{
		"simple":      1,
		"withIf":      2,
		"withTernary": 2,
		"withAndOr":   4,
		"withLoop":    2,
		"arrow":       1,
		"bound":       1,
	}
	for name, want := range cases {
		fn := findFunction(rec.Functions, name)
		if fn == nil {
			t.Fatalf("function %s not found", name)
		}
		if fn.Complexity != want {
			t.Errorf("%s: expected cyclomatic %d, got %d", name, want, fn.Complexity)
		}
	}

	total := 0
	for _, fn := range rec.Functions {
		total += fn.Complexity
	}
	if rec.Complexity.Cyclomatic != total {
		t.Errorf("file cyclomatic should sum functions: expected %d, got %d", total, rec.Complexity.Cyclomatic)
	}
}

func TestExtractSource_NestedFunctionComplexityIsolated(t *testing.T) {
	source := []byte(`
function outer(x) {
	if (x) {
		const inner = (y) => {
			if (y > 0) {
				return 1;
			}
			for (let i = 0; i < y; i++) {
				y--;
			}
			return y ? 1 : 2;
		};
		return inner(x);
	}
	return 0;
}
`)

	e := NewExtractor()
	rec, err := e.ExtractSource(context.Background(), "src/nested.js", source, DialectJS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outer := findFunction(rec.Functions, "outer")
	if outer == nil {
		t.Fatal("outer function not found")
	}
	if outer.Complexity != 2 {
		t.Errorf("outer: nested decisions must not leak in, expected cyclomatic 2, got %d", outer.Complexity)
	}

	inner := findFunction(rec.Functions, "inner")
	if inner == nil {
		t.Fatal("inner function not found")
	}
	if inner.Complexity != 4 {
		t.Errorf("inner: expected cyclomatic 4, got %d", inner.Complexity)
	}
}

func TestExtractSource_UnnamedExpressionsSkipped(t *testing.T) {
	source := []byte(`
setTimeout(function () { tick(); }, 100);
items.forEach((item) => handle(item));
const obj = { run: () => {} };
const [a, b] = [() => {}, () => {}];
`)

	e := NewExtractor()
	rec, err := e.ExtractSource(context.Background(), "src/anon.js", source, DialectJS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Functions) != 0 {
		t.Errorf("expected no named functions, got %d: %+v", len(rec.Functions), rec.Functions)
	}
}

func TestExtractSource_TypeScriptClass(t *testing.T) {
	source := []byte(`
class Base {}

class Widget extends Base {
	private count: number = 0;
	static version = "1.0";

	constructor(name: string) {
		this.name = name;
	}

	private update(delta: number) {
		if (delta > 0) {
			this.count += delta;
		}
	}

	get total() {
		return this.count;
	}
}
`)

	e := NewExtractor()
	rec, err := e.ExtractSource(context.Background(), "src/widget.ts", source, DialectTS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.Classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(rec.Classes))
	}

	var widget *ClassRecord
	for i := range rec.Classes {
		if rec.Classes[i].Name == "Widget" {
			widget = &rec.Classes[i]
		}
	}
	if widget == nil {
		t.Fatal("Widget class not found")
	}

	if widget.SuperClass != "Base" {
		t.Errorf("expected superclass Base, got %q", widget.SuperClass)
	}
	if len(widget.Methods) != 3 {
		t.Fatalf("expected 3 methods, got %d", len(widget.Methods))
	}

	update := findFunction(widget.Methods, "update")
	if update == nil {
		t.Fatal("update method not found")
	}
	if update.Visibility != "private" {
		t.Errorf("expected update to be private, got %q", update.Visibility)
	}
	if update.Complexity != 2 {
		t.Errorf("update: expected cyclomatic 2, got %d", update.Complexity)
	}

	total := findFunction(widget.Methods, "total")
	if total == nil {
		t.Fatal("total getter not found")
	}
	if total.Visibility != "public" {
		t.Errorf("getters are always public, got %q", total.Visibility)
	}

	ctor := findFunction(widget.Methods, "constructor")
	if ctor == nil {
		t.Fatal("constructor not found")
	}
	if ctor.Visibility != "public" {
		t.Errorf("expected constructor to default to public, got %q", ctor.Visibility)
	}

	if widget.Complexity != update.Complexity+total.Complexity+ctor.Complexity {
		t.Errorf("class complexity should sum methods, got %d", widget.Complexity)
	}

	if len(widget.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(widget.Properties))
	}
	for _, p := range widget.Properties {
		switch p.Name {
		case "count":
			if p.Visibility != "private" || p.Static {
				t.Errorf("count: expected private instance field, got %+v", p)
			}
		case "version":
			if !p.Static {
				t.Errorf("version: expected static field, got %+v", p)
			}
		default:
			t.Errorf("unexpected property %q", p.Name)
		}
	}
}

func TestExtractSource_ImportsAndExports(t *testing.T) {
	source := []byte(`
import React from "react";
import { useState, useEffect as effect } from "react";
import * as path from "path";

export function handler(req) {
	return req;
}

export const LIMIT = 10;

export default class App {}
`)

	e := NewExtractor()
	rec, err := e.ExtractSource(context.Background(), "src/index.js", source, DialectJS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.Imports) != 3 {
		t.Fatalf("expected 3 imports, got %d", len(rec.Imports))
	}

	first := rec.Imports[0]
	if first.Module != "react" || !first.Default || len(first.Names) != 1 || first.Names[0] != "React" {
		t.Errorf("default import mismatch: %+v", first)
	}

	second := rec.Imports[1]
	if len(second.Names) != 2 || second.Names[0] != "useState" || second.Names[1] != "effect" {
		t.Errorf("named imports should use aliases: %+v", second)
	}

	third := rec.Imports[2]
	if third.Module != "path" || len(third.Names) != 1 || third.Names[0] != "path" {
		t.Errorf("namespace import mismatch: %+v", third)
	}

	// Modules deduplicate in first-seen order.
	if len(rec.Dependencies) != 2 || rec.Dependencies[0] != "react" || rec.Dependencies[1] != "path" {
		t.Errorf("unexpected dependencies: %v", rec.Dependencies)
	}

	if len(rec.Exports) != 3 {
		t.Fatalf("expected 3 exports, got %d", len(rec.Exports))
	}
	kinds := map[string]ExportKind{}
	for _, exp := range rec.Exports {
		kinds[exp.Name] = exp.Kind
	}
	if kinds["handler"] != ExportFunction {
		t.Errorf("handler: expected function export, got %s", kinds["handler"])
	}
	if kinds["LIMIT"] != ExportVariable {
		t.Errorf("LIMIT: expected variable export, got %s", kinds["LIMIT"])
	}
	if kinds["App"] != ExportDefault {
		t.Errorf("App: expected default export, got %s", kinds["App"])
	}
}

func TestExtractSource_LineCount(t *testing.T) {
	e := NewExtractor()

	withNewline, err := e.ExtractSource(context.Background(), "a.js", []byte("const a = 1;\nconst b = 2;\n"), DialectJS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withNewline.Lines != 2 {
		t.Errorf("expected 2 lines, got %d", withNewline.Lines)
	}

	noNewline, err := e.ExtractSource(context.Background(), "b.js", []byte("const a = 1;"), DialectJS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if noNewline.Lines != 1 {
		t.Errorf("expected 1 line without trailing newline, got %d", noNewline.Lines)
	}
}

func TestExtractSource_SyntaxError(t *testing.T) {
	e := NewExtractor()
	_, err := e.ExtractSource(context.Background(), "bad.js", []byte("function ){ broken"), DialectJS)
	if err == nil {
		t.Fatal("expected error for broken source")
	}
	if !errors.IsCode(err, errors.ParseFailed) {
		t.Errorf("expected PARSE_FAILED, got %v", err)
	}
}

func TestExtractFile_MissingFile(t *testing.T) {
	e := NewExtractor()
	_, err := e.ExtractFile(context.Background(), filepath.Join(t.TempDir(), "nope.js"), "nope.js")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.IsCode(err, errors.FileReadFailed) {
		t.Errorf("expected FILE_READ_FAILED, got %v", err)
	}
}
