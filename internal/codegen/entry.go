// Package codegen renders the chunk plan and transformed module factories
// into the bundler's two output shapes: the entry bundle (runtime plus the
// main chunk) and the JSONP-envelope non-entry bundles (spec.md §4.6).
// Grounded on service/dot_formatter.go's strings.Builder-based, section-by-
// section text assembly, retargeted from a dependency-graph DOT rendering to
// a JavaScript runtime rendering.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ludo-technologies/bundler/domain"
)

// Entry renders the entry bundle: the module registry for the main chunk,
// the loader and its runtime helpers, the lazy-load runtime (when any lazy
// or shared chunk exists), and the entry kick-off. publicPath is prepended
// to chunk filenames at load time (spec.md §4.6's "public path variable").
func Entry(plan domain.ChunkPlan, factoryBodies map[string]string, publicPath string) string {
	var b strings.Builder

	b.WriteString("(function() {\n\"use strict\";\n\n")

	writeModuleRegistry(&b, plan.Main.MemberModuleIDs, factoryBodies)
	writeModuleCache(&b)
	writeLoader(&b)
	writeRuntimeHelpers(&b)

	if len(plan.Lazy) > 0 || len(plan.Shared) > 0 {
		writeLazyLoadRuntime(&b, plan, publicPath)
	}

	b.WriteString("\n// Entry point.\n")
	fmt.Fprintf(&b, "loadModule(%s);\n", jsString(plan.Main.EntryModuleID))
	b.WriteString("})();\n")

	return b.String()
}

// Chunk renders a non-entry bundle (one lazy or shared chunk) as the JSONP
// envelope described in spec.md §6 ("Wire envelope of non-entry bundles").
func Chunk(chunk domain.Chunk, factoryBodies map[string]string) string {
	var b strings.Builder

	b.WriteString("(self[\"bundlerChunkCallbacks\"] = self[\"bundlerChunkCallbacks\"] || []).push([\n")
	fmt.Fprintf(&b, "  [%s],\n", jsString(chunk.ChunkID))
	b.WriteString("  {\n")
	for _, id := range chunk.MemberModuleIDs {
		fmt.Fprintf(&b, "    %s: (module, exports, loadModule) => {\n", jsString(id))
		writeIndented(&b, factoryBodies[id], "      ")
		b.WriteString("    },\n")
	}
	b.WriteString("  }\n")
	b.WriteString("]);\n")

	return b.String()
}

// writeModuleRegistry emits the "var modules = { ... }" object literal, in
// BFS discovery order (spec.md §4.6 "Module registry").
func writeModuleRegistry(b *strings.Builder, moduleIDs []string, factoryBodies map[string]string) {
	b.WriteString("// Module registry (webpack: __webpack_modules__).\n")
	b.WriteString("var modules = {\n")
	for _, id := range moduleIDs {
		fmt.Fprintf(b, "  %s: (module, exports, loadModule) => {\n", jsString(id))
		writeIndented(b, factoryBodies[id], "    ")
		b.WriteString("  },\n")
	}
	b.WriteString("};\n\n")
}

// writeModuleCache emits the empty module cache (spec.md §4.6 "Module cache").
func writeModuleCache(b *strings.Builder) {
	b.WriteString("// Module cache (webpack: __webpack_module_cache__).\n")
	b.WriteString("var cache = {};\n\n")
}

// writeLoader emits the loader function with its insert-before-invoke
// cycle-tolerance contract (spec.md §4.6 "Module loader").
func writeLoader(b *strings.Builder) {
	b.WriteString("// Module loader (webpack: __webpack_require__).\n")
	b.WriteString(`function loadModule(id) {
  if (cache[id]) {
    return cache[id].exports;
  }
  var module = { exports: {} };
  cache[id] = module;
  modules[id](module, module.exports, loadModule);
  return module.exports;
}
`)
	b.WriteString("\n")
}

// writeRuntimeHelpers attaches the mark-ES-module, define-exports, and
// own-property-check helpers to the loader value (spec.md §4.6 "Runtime
// helpers").
func writeRuntimeHelpers(b *strings.Builder) {
	b.WriteString("// Runtime helpers attached to the loader (webpack: __webpack_require__.*).\n")
	b.WriteString(`loadModule.hasOwn = function(obj, key) {
  return Object.prototype.hasOwnProperty.call(obj, key);
};

loadModule.markESModule = function(target) {
  Object.defineProperty(target, "__esModule", { value: true });
  if (typeof Symbol !== "undefined" && Symbol.toStringTag) {
    Object.defineProperty(target, Symbol.toStringTag, { value: "Module" });
  }
};

loadModule.defineExports = function(target, definitions) {
  for (var key in definitions) {
    if (!loadModule.hasOwn(definitions, key)) {
      continue;
    }
    if (loadModule.hasOwn(target, key)) {
      continue;
    }
    Object.defineProperty(target, key, { enumerable: true, get: definitions[key] });
  }
};
`)
	b.WriteString("\n")
}

// writeLazyLoadRuntime emits the chunk status table, chunk-group map,
// load-chunk function, script injector, and JSONP installer (spec.md §4.6
// "Lazy-load runtime").
func writeLazyLoadRuntime(b *strings.Builder, plan domain.ChunkPlan, publicPath string) {
	b.WriteString("// Lazy-load runtime (webpack: jsonp chunk loading).\n")
	b.WriteString("var chunkStatus = {};\n")
	fmt.Fprintf(b, "var publicPath = %s;\n\n", jsString(publicPath))
	b.WriteString(`function chunkFilename(chunkId) {
  return chunkId + ".js";
}

`)

	fmt.Fprintf(b, "var chunkGroupMap = %s;\n\n", renderChunkGroupMap(plan.ChunkGroups))

	b.WriteString(`function injectScript(chunkId) {
  var script = document.createElement("script");
  script.src = publicPath + chunkFilename(chunkId);
  script.onerror = function() {
    console.error("bundler: failed to load chunk " + chunkId);
  };
  document.head.appendChild(script);
}

function loadChunk(chunkId) {
  var ids = chunkGroupMap[chunkId] || [chunkId];
  var promises = [];
  for (var i = 0; i < ids.length; i++) {
    var id = ids[i];
    var status = chunkStatus[id];
    if (status === 0) {
      continue;
    }
    if (status) {
      promises.push(status[2]);
      continue;
    }
    var resolve, reject;
    var promise = new Promise(function(res, rej) {
      resolve = res;
      reject = rej;
    });
    chunkStatus[id] = [resolve, reject, promise];
    promises.push(promise);
    injectScript(id);
  }
  return Promise.all(promises);
}

(function() {
  function install(entry) {
    var chunkIds = entry[0];
    var factories = entry[1];
    for (var id in factories) {
      if (loadModule.hasOwn(factories, id) && !loadModule.hasOwn(modules, id)) {
        modules[id] = factories[id];
      }
    }
    for (var i = 0; i < chunkIds.length; i++) {
      var id = chunkIds[i];
      var status = chunkStatus[id];
      if (status && status[0]) {
        status[0]();
      }
      chunkStatus[id] = 0;
    }
  }

  var callbacks = self["bundlerChunkCallbacks"] = self["bundlerChunkCallbacks"] || [];
  var queued = callbacks.slice(0);
  callbacks.length = 0;
  queued.forEach(install);
  callbacks.push = install;
})();
`)
	b.WriteString("\n")
}

// renderChunkGroupMap serializes the planner's chunk-group map as a JS
// object literal, in sorted lazy-chunk-id order for determinism.
func renderChunkGroupMap(groups map[string]domain.ChunkGroup) string {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString("{\n")
	for _, id := range ids {
		group := groups[id]
		parts := make([]string, len(group.ChunkIDs))
		for i, c := range group.ChunkIDs {
			parts[i] = jsString(c)
		}
		fmt.Fprintf(&b, "  %s: [%s],\n", jsString(id), strings.Join(parts, ", "))
	}
	b.WriteString("}")
	return b.String()
}

func writeIndented(b *strings.Builder, text, indent string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func jsString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
