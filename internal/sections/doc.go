// Package sections splits a content region into sections and blocks, and
// drives their load lifecycle.
//
// Structure is decorated synchronously (DecorateSections, DecorateBlocks);
// loading (LoadSection, LoadSections, LoadBlock) links each block's
// stylesheet and runs the decorator registered for its name. Status is kept
// on the elements themselves in data-section-status and data-block-status.
package sections
