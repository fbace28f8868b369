package model

// ReferenceKind classifies how a raw test reference string may be
// interpreted. A single reference usually has several candidate kinds;
// the classifier returns them in the order finders should try them.
type ReferenceKind string

const (
	// KindModule is a module name from the build graph.
	KindModule ReferenceKind = "MODULE"
	// KindClass is a bare class name (HostTest lives in HostTest.java).
	KindClass ReferenceKind = "CLASS"
	// KindQualifiedClass is a package-qualified class name like
	// com.android.tradefed.testtype.HostTest.
	KindQualifiedClass ReferenceKind = "QUALIFIED_CLASS"
	// KindModuleClass is a MODULE:CLASS combination.
	KindModuleClass ReferenceKind = "MODULE_CLASS"
	// KindPackage is a java package name.
	KindPackage ReferenceKind = "PACKAGE"
	// KindModulePackage is a MODULE:PACKAGE combination.
	KindModulePackage ReferenceKind = "MODULE_PACKAGE"
	// KindFilePath is a path to a test file or a directory of tests.
	KindFilePath ReferenceKind = "FILE_PATH"
	// KindIntegration is the name of an XML config in one of the
	// integration config directories.
	KindIntegration ReferenceKind = "INTEGRATION"
	// KindSuite is the value of a test-suite-tag in an integration config.
	KindSuite ReferenceKind = "SUITE"
)
